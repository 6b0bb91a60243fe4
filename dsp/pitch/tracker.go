package pitch

import (
	"math"

	"github.com/kencooke/hifi/dsp/core"
	"github.com/kencooke/hifi/dsp/delay"
	"github.com/kencooke/hifi/dsp/window"
)

const (
	// fifoSize is the span of the input and output histories. Resynthesis
	// reaches back up to a frame plus a full grain, so three frames of
	// history cover every access.
	fifoSize = 3 * PeriodMax

	minPeriodRatio = 0.25
	maxPeriodRatio = 4.0
)

// Tracker is a streaming formant-preserving pitch shifter. Input samples are
// buffered into PeriodMax-sample frames; each full frame is period-detected
// and resynthesized from overlap-added raised-cosine grains, and the result
// drains back out sample by sample.
//
// Tracker is single-stream and not safe for concurrent use.
type Tracker struct {
	detector *Detector
	input    *delay.MirroredLine
	output   *delay.MirroredLine

	frameIn  [PeriodMax]float64
	frameOut [PeriodMax]float64
	window   [2 * PeriodMax]float64

	nframes int
	period  int

	shift       float64
	periodRatio float64

	// inputPtr walks grain extraction points through the frame; outputPtr
	// is the fractional overlap-add cursor. Both carry residue across
	// frames so grain spacing stays continuous.
	inputPtr  int
	outputPtr float64
}

// NewTracker returns a pitch tracker configured for no shift.
func NewTracker() *Tracker {
	return &Tracker{
		detector:    NewDetector(),
		input:       delay.NewMirrored(fifoSize),
		output:      delay.NewMirrored(fifoSize),
		shift:       1,
		periodRatio: 1,
	}
}

// SetShift sets the pitch shift factor: 2 shifts up an octave, 0.5 shifts
// down an octave. Non-positive or non-finite factors fall back to 1. The
// effective period ratio is clamped to [0.25, 4].
func (t *Tracker) SetShift(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		factor = 1
	}
	t.shift = factor
	t.periodRatio = core.Clamp(1/factor, minPeriodRatio, maxPeriodRatio)
}

// Shift returns the configured pitch shift factor.
func (t *Tracker) Shift() float64 { return t.shift }

// PeriodRatio returns the effective resynthesis period ratio, the clamped
// reciprocal of the shift factor.
func (t *Tracker) PeriodRatio() float64 { return t.periodRatio }

// Period returns the fundamental period, in samples, detected for the most
// recently analyzed frame. It is zero until the first frame completes.
func (t *Tracker) Period() int { return t.period }

// Latency returns the fixed frame-buffering delay in samples. Resynthesis
// adds up to one detected period of additional waveform delay on top.
func (t *Tracker) Latency() int { return PeriodMax }

// ProcessSample consumes one input sample and returns one output sample
// delayed by Latency.
func (t *Tracker) ProcessSample(x float64) float64 {
	t.frameIn[t.nframes] = x
	out := t.frameOut[t.nframes]

	t.nframes++
	if t.nframes == PeriodMax {
		t.nframes = 0
		t.resynthesize()
	}
	return out
}

// ProcessInPlace processes a block of samples, replacing each with its
// delayed, pitch-shifted counterpart.
func (t *Tracker) ProcessInPlace(samples []float64) {
	for i, x := range samples {
		samples[i] = t.ProcessSample(x)
	}
}

// resynthesize converts the buffered analysis frame into output: detect the
// period, drain a frame of finished output, then overlap-add two-period
// grains at input spacing period and output spacing period*periodRatio.
func (t *Tracker) resynthesize() {
	t.period = t.detector.Detect(t.input, t.frameIn[:])
	p := t.period

	// Samples leaving the output FIFO are complete; they become the next
	// frame handed back by ProcessSample.
	for i := range t.frameOut {
		t.frameOut[i] = t.output.Push(0)
	}

	window.Grain(t.window[:2*p], p)

	// Upward shifts pack grains closer together, so each is attenuated by
	// the ratio to keep the overlap-add sum at unity. Downward shifts
	// spread grains apart and need no attenuation.
	scale := t.periodRatio
	if scale > 1 {
		scale = 1
	}

	for t.inputPtr < PeriodMax-p {
		for t.outputPtr < float64(t.inputPtr) {
			frac1 := math.Mod(t.outputPtr+PeriodMax, 1)
			frac0 := 1 - frac1

			m := PeriodMax - t.inputPtr + p - 1
			n := 2*PeriodMax - int(math.Floor(t.outputPtr+PeriodMax)) + p - 1

			// Deposit the grain across the two output samples
			// straddling the fractional cursor.
			for j := 0; j < 2*p; j++ {
				x := t.input.At(m) * t.window[j] * scale
				t.output.Set(n, t.output.At(n)+frac0*x)
				t.output.Set(n-1, t.output.At(n-1)+frac1*x)
				m--
				n--
			}

			t.outputPtr += float64(p) * t.periodRatio
		}
		t.inputPtr += p
	}

	t.outputPtr -= PeriodMax
	t.inputPtr -= PeriodMax

	// Aperiodic frames synthesize nothing, so repeated ones would walk the
	// cursors backward without bound; extreme ratios with long periods
	// drift the output cursor the same way. One frame of residue is all
	// the history spans.
	if t.inputPtr < -PeriodMax {
		t.inputPtr = -PeriodMax
	}
	if t.outputPtr < -PeriodMax {
		t.outputPtr = -PeriodMax
	}
}

// Reset clears all histories and cursors, keeping the configured shift.
func (t *Tracker) Reset() {
	t.detector.Reset()
	t.input.Reset()
	t.output.Reset()
	for i := range t.frameIn {
		t.frameIn[i] = 0
		t.frameOut[i] = 0
	}
	t.nframes = 0
	t.period = 0
	t.inputPtr = 0
	t.outputPtr = 0
}
