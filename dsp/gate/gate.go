package gate

import (
	"math"

	"github.com/kencooke/hifi/dsp/core"
)

const (
	// ClippingThreshold is the fraction of full scale at which a sample
	// counts as clipped.
	ClippingThreshold = 0.90

	// NoiseSampleFrames is the number of frame loudness values collected
	// before the noise floor is re-estimated.
	NoiseSampleFrames = 300

	// noiseGateHeight is how loud a sample must be, as a multiple of the
	// measured noise floor, to count towards opening the gate. Lower values
	// make the gate more sensitive and reject less noise.
	noiseGateHeight = 7.0

	// noiseGateWidth is the number of samples in a frame that must exceed
	// the gate height for the frame to open the gate.
	noiseGateWidth = 5

	// closeFrameDelay is how many below-threshold frames the gate stays
	// open after the signal drops under the height.
	closeFrameDelay = 5

	// framesToAverage is the block length used when scanning the loudness
	// history for its quietest block. Longer blocks reject transients
	// better but can also absorb continuous sounds like singing.
	framesToAverage = 5

	// noiseDetectionFrames is the span of the quietest/loudest frame
	// tracking window. Independent of the floor history so their resets
	// never alias.
	noiseDetectionFrames = 400

	clipLevel = float64(core.MaxSampleValue) * ClippingThreshold
)

// Metrics is a snapshot of the estimator's diagnostic state.
type Metrics struct {
	LastLoudness  float64
	MeasuredFloor float64
	QuietestFrame float64
	LoudestFrame  float64
	DCOffset      float64
	DidClip       bool
	IsOpen        bool
}

// Estimator measures per-frame loudness against an adaptive noise floor and
// drives an open/closed speech gate with asymmetric hysteresis: the gate
// opens the instant a frame rises above the floor and closes only after
// closeFrameDelay consecutive frames below it, so short pauses inside speech
// do not cause chatter.
//
// The estimator only analyzes; it never mutes samples. Muting on a closed
// gate is caller policy.
//
// Estimator is single-stream and not safe for concurrent use. Each audio
// stream needs its own instance.
type Estimator struct {
	// Loudness history used for floor re-estimation. The counter resets
	// when the history fills; slots are overwritten on the next pass.
	sampleFrames  [NoiseSampleFrames]float64
	sampleCounter int

	inputFrameCounter int
	lastLoudness      float64
	quietestFrame     float64
	loudestFrame      float64
	didClipInFrame    bool

	dcOffset      float64
	measuredFloor float64

	isOpen        bool
	framesToClose int
}

// NewEstimator returns a gate estimator with a zero noise floor. The floor
// converges after the first NoiseSampleFrames frames have been observed.
func NewEstimator() *Estimator {
	return &Estimator{
		quietestFrame: math.MaxFloat64,
	}
}

// GateSamples updates loudness, clipping, noise floor, and gate state from
// one DC-corrected frame. Samples are not modified. Empty frames are
// ignored.
func (e *Estimator) GateSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}

	loudness := 0.0
	samplesOverGate := 0
	e.didClipInFrame = false

	for _, s := range samples {
		mag := math.Abs(float64(s))
		if mag >= clipLevel {
			e.didClipInFrame = true
		}

		loudness += mag
		// Noise reduction: count peaks above the measured background.
		if mag > e.measuredFloor*noiseGateHeight {
			samplesOverGate++
		}
	}

	e.lastLoudness = loudness / float64(len(samples))

	if e.lastLoudness < e.quietestFrame {
		e.quietestFrame = e.lastLoudness
	}
	if e.lastLoudness > e.loudestFrame {
		e.loudestFrame = e.lastLoudness
	}

	e.inputFrameCounter++
	if e.inputFrameCounter >= noiseDetectionFrames {
		e.quietestFrame = math.MaxFloat64
		e.loudestFrame = 0
		e.inputFrameCounter = 0
	}

	e.sampleFrames[e.sampleCounter] = e.lastLoudness
	e.sampleCounter++
	if e.sampleCounter == NoiseSampleFrames {
		e.measuredFloor = quietestBlockAverage(e.sampleFrames[:])
		e.sampleCounter = 0
	}

	if samplesOverGate > noiseGateWidth {
		e.isOpen = true
		e.framesToClose = closeFrameDelay
	} else if e.framesToClose > 0 {
		// Clamp at zero: decrementing an already-closed gate is a no-op,
		// never a re-trigger.
		e.framesToClose--
		if e.framesToClose == 0 {
			e.isOpen = false
		}
	}
}

// quietestBlockAverage partitions the loudness history into consecutive
// blocks of framesToAverage frames and returns the smallest block average.
// Loud blocks are ignored entirely, making the floor robust to transients.
func quietestBlockAverage(history []float64) float64 {
	smallest := math.MaxFloat64
	for i := 0; i+framesToAverage <= len(history); i += framesToAverage {
		avg := 0.0
		for j := i; j < i+framesToAverage; j++ {
			avg += history[j]
		}
		avg /= framesToAverage

		if avg < smallest {
			smallest = avg
		}
	}
	return smallest
}

// IsOpen reports whether the gate considers the stream to carry speech.
func (e *Estimator) IsOpen() bool { return e.isOpen }

// DidClipInLastFrame reports whether any sample in the most recent frame
// reached the clipping threshold.
func (e *Estimator) DidClipInLastFrame() bool { return e.didClipInFrame }

// LastLoudness returns the mean absolute sample value of the last frame.
func (e *Estimator) LastLoudness() float64 { return e.lastLoudness }

// MeasuredFloor returns the current noise floor estimate. It changes only
// at history-boundary re-estimation, every NoiseSampleFrames frames.
func (e *Estimator) MeasuredFloor() float64 { return e.measuredFloor }

// QuietestFrame returns the lowest frame loudness seen in the current
// tracking window.
func (e *Estimator) QuietestFrame() float64 { return e.quietestFrame }

// LoudestFrame returns the highest frame loudness seen in the current
// tracking window.
func (e *Estimator) LoudestFrame() float64 { return e.loudestFrame }

// DCOffset returns the running DC bias estimate.
func (e *Estimator) DCOffset() float64 { return e.dcOffset }

// GetMetrics returns a snapshot of the estimator's diagnostic state.
func (e *Estimator) GetMetrics() Metrics {
	return Metrics{
		LastLoudness:  e.lastLoudness,
		MeasuredFloor: e.measuredFloor,
		QuietestFrame: e.quietestFrame,
		LoudestFrame:  e.loudestFrame,
		DCOffset:      e.dcOffset,
		DidClip:       e.didClipInFrame,
		IsOpen:        e.isOpen,
	}
}

// Reset restores the estimator to its initial state.
func (e *Estimator) Reset() {
	*e = Estimator{quietestFrame: math.MaxFloat64}
}
