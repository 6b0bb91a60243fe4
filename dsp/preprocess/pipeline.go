// Package preprocess chains the microphone capture path: DC offset removal,
// adaptive noise gating, and formant-preserving pitch shifting over frames
// of 16-bit PCM.
package preprocess

import (
	"fmt"

	"github.com/kencooke/hifi/dsp/core"
	"github.com/kencooke/hifi/dsp/gate"
	"github.com/kencooke/hifi/dsp/pitch"
)

// Pipeline processes capture frames in place. Each frame is DC-corrected,
// analyzed by the noise gate, optionally muted while the gate is closed,
// then pitch-shifted and clamped back to the 16-bit range.
//
// Pipeline is single-stream and not safe for concurrent use.
type Pipeline struct {
	gate    *gate.Estimator
	tracker *pitch.Tracker

	muteWhenClosed bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMute controls whether frames are silenced while the gate is closed.
// Muting is off by default; the gate then only annotates state.
func WithMute(mute bool) Option {
	return func(p *Pipeline) {
		p.muteWhenClosed = mute
	}
}

// WithShift sets the initial pitch shift factor.
func WithShift(factor float64) Option {
	return func(p *Pipeline) {
		p.tracker.SetShift(factor)
	}
}

// New creates a capture pre-processor with no pitch shift and muting
// disabled.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		gate:    gate.NewEstimator(),
		tracker: pitch.NewTracker(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ProcessFrame runs one capture frame through the pipeline in place.
// Empty frames are rejected; partial state updates never happen.
func (p *Pipeline) ProcessFrame(samples []int16) error {
	if len(samples) == 0 {
		return fmt.Errorf("preprocess frame must not be empty")
	}

	p.gate.RemoveDCOffset(samples)
	p.gate.GateSamples(samples)

	if p.muteWhenClosed && !p.gate.IsOpen() {
		for i := range samples {
			samples[i] = 0
		}
	}

	for i, s := range samples {
		shifted := p.tracker.ProcessSample(core.SampleToFloat(s))
		samples[i] = core.FloatToSample(shifted)
	}
	return nil
}

// SetShift sets the pitch shift factor: 2 shifts up an octave, 0.5 down.
func (p *Pipeline) SetShift(factor float64) {
	p.tracker.SetShift(factor)
}

// Shift returns the configured pitch shift factor.
func (p *Pipeline) Shift() float64 { return p.tracker.Shift() }

// IsOpen reports whether the noise gate currently passes the stream as
// speech.
func (p *Pipeline) IsOpen() bool { return p.gate.IsOpen() }

// DidClipInLastFrame reports whether the last processed frame contained
// clipped input samples.
func (p *Pipeline) DidClipInLastFrame() bool { return p.gate.DidClipInLastFrame() }

// MeasuredFloor returns the gate's current noise floor estimate.
func (p *Pipeline) MeasuredFloor() float64 { return p.gate.MeasuredFloor() }

// LastLoudness returns the mean absolute sample value of the last frame.
func (p *Pipeline) LastLoudness() float64 { return p.gate.LastLoudness() }

// Gate returns the underlying noise gate estimator for detailed telemetry.
func (p *Pipeline) Gate() *gate.Estimator { return p.gate }

// Tracker returns the underlying pitch tracker.
func (p *Pipeline) Tracker() *pitch.Tracker { return p.tracker }

// Reset restores gate and tracker state, keeping the configuration.
func (p *Pipeline) Reset() {
	p.gate.Reset()
	p.tracker.Reset()
}
