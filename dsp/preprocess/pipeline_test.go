package preprocess

import (
	"math"
	"testing"

	"github.com/kencooke/hifi/dsp/core"
	"github.com/kencooke/hifi/dsp/pitch"
	"github.com/kencooke/hifi/dsp/signal"
)

const frameSize = 256

// processFrames runs pcm through p frame by frame and returns the
// concatenated output.
func processFrames(t *testing.T, p *Pipeline, pcm []int16) []int16 {
	t.Helper()
	out := make([]int16, 0, len(pcm))
	for off := 0; off+frameSize <= len(pcm); off += frameSize {
		frame := make([]int16, frameSize)
		copy(frame, pcm[off:off+frameSize])
		if err := p.ProcessFrame(frame); err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		out = append(out, frame...)
	}
	return out
}

func harmonicPCM(t *testing.T, samples int) []int16 {
	t.Helper()
	gen := signal.NewGenerator(nil)
	x, err := gen.Harmonic(64, 0.3, 5, samples)
	if err != nil {
		t.Fatal(err)
	}
	return signal.ToPCM(x)
}

func TestProcessFrameRejectsEmpty(t *testing.T) {
	p := New()
	if err := p.ProcessFrame(nil); err == nil {
		t.Error("ProcessFrame(nil) error = nil, want error")
	}
	if err := p.ProcessFrame([]int16{}); err == nil {
		t.Error("ProcessFrame(empty) error = nil, want error")
	}
}

func TestOctaveUpEndToEnd(t *testing.T) {
	pcm := harmonicPCM(t, 8*pitch.PeriodMax)

	p := New(WithShift(2))
	out := processFrames(t, p, pcm)

	if got := p.Tracker().Period(); got != 64 {
		t.Errorf("Period() = %d, want 64", got)
	}
	if !p.IsOpen() {
		t.Error("IsOpen() = false on loud tone, want true")
	}

	// Doubled pitch: the steady-state output repeats every 32 samples.
	tail := make([]float64, 0, 4*pitch.PeriodMax)
	for _, s := range out[4*pitch.PeriodMax:] {
		tail = append(tail, float64(s)/core.SampleScale)
	}
	if r := autocorrAtLag(tail, 32); r < 0.98 {
		t.Errorf("autocorrelation at lag 32 = %f, want >= 0.98", r)
	}
	if r := autocorrAtLag(tail, 48); r > 0.5 {
		t.Errorf("autocorrelation at lag 48 = %f, want < 0.5", r)
	}
}

func autocorrAtLag(x []float64, lag int) float64 {
	a := x[:len(x)-lag]
	b := x[lag:]
	var num, ea, eb float64
	for i := range a {
		num += a[i] * b[i]
		ea += a[i] * a[i]
		eb += b[i] * b[i]
	}
	return num / math.Sqrt(ea*eb)
}

func TestFullScaleInputStaysInRange(t *testing.T) {
	gen := signal.NewGenerator(nil)
	x, err := gen.Harmonic(64, 1.5, 5, 8*pitch.PeriodMax)
	if err != nil {
		t.Fatal(err)
	}
	pcm := signal.ToPCM(x)

	// int16 output cannot overflow by type, so the real check is that
	// hard-clamped full-scale input processes without corruption.
	p := New(WithShift(0.5))
	processFrames(t, p, pcm)
	if !p.DidClipInLastFrame() {
		t.Error("DidClipInLastFrame() = false on full-scale input, want true")
	}
}

func TestMuteWhenClosed(t *testing.T) {
	p := New(WithMute(true))

	// Zero frames keep the gate closed; with muting on, output is silent.
	silence := make([]int16, 8*pitch.PeriodMax)
	out := processFrames(t, p, silence)
	if p.IsOpen() {
		t.Fatal("IsOpen() = true on silence, want false")
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("out[%d] = %d on muted silence, want 0", i, s)
		}
	}

	// A tone opens the gate and passes through.
	pcm := harmonicPCM(t, 8*pitch.PeriodMax)
	out = processFrames(t, p, pcm)
	if !p.IsOpen() {
		t.Fatal("IsOpen() = false on tone, want true")
	}
	peak := int16(0)
	for _, s := range out {
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		t.Error("muted pipeline silenced an open gate")
	}
}

func TestGateClosesAfterSpeechStops(t *testing.T) {
	p := New()
	pcm := harmonicPCM(t, 4*pitch.PeriodMax)
	processFrames(t, p, pcm)
	if !p.IsOpen() {
		t.Fatal("gate did not open on tone")
	}

	processFrames(t, p, make([]int16, 8*frameSize))
	if p.IsOpen() {
		t.Error("IsOpen() = true after sustained silence, want false")
	}
}

func TestDCOffsetRemovedBeforeGating(t *testing.T) {
	pcm := harmonicPCM(t, 8*pitch.PeriodMax)
	for i, s := range pcm {
		pcm[i] = s + 1000
	}

	p := New()
	processFrames(t, p, pcm)
	if math.Abs(p.Gate().DCOffset()-1000) > 50 {
		t.Errorf("DCOffset() = %f, want ~1000", p.Gate().DCOffset())
	}
}

func TestReset(t *testing.T) {
	p := New(WithShift(2))
	processFrames(t, p, harmonicPCM(t, 4*pitch.PeriodMax))

	p.Reset()
	if p.IsOpen() {
		t.Error("IsOpen() = true after reset, want false")
	}
	if p.Tracker().Period() != 0 {
		t.Errorf("Period() = %d after reset, want 0", p.Tracker().Period())
	}
	if p.Shift() != 2 {
		t.Errorf("Shift() = %g after reset, want 2 (configuration survives)", p.Shift())
	}
}

func BenchmarkProcessFrame(b *testing.B) {
	gen := signal.NewGenerator(nil)
	x, _ := gen.Harmonic(64, 0.3, 5, frameSize)
	pcm := signal.ToPCM(x)

	p := New(WithShift(1.5))
	frame := make([]int16, frameSize)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(frame, pcm)
		if err := p.ProcessFrame(frame); err != nil {
			b.Fatal(err)
		}
	}
}
