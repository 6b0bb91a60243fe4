// Package signal generates deterministic test and calibration signals.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kencooke/hifi/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave at freqHz using the configured sample rate.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	return g.SinePeriod(g.cfg.SampleRate/freqHz, amplitude, samples)
}

// SinePeriod generates a sine wave with the given period in samples.
func (g *Generator) SinePeriod(period, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if period <= 0 {
		return nil, fmt.Errorf("sine period must be > 0: %f", period)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi / period
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Harmonic generates a voiced-speech-like tone with the given fundamental
// period in samples: partials harmonics with 1/h amplitude roll-off.
func (g *Generator) Harmonic(period, amplitude float64, partials, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("harmonic samples must be > 0: %d", samples)
	}
	if period <= 0 {
		return nil, fmt.Errorf("harmonic period must be > 0: %f", period)
	}
	if partials < 1 {
		return nil, fmt.Errorf("harmonic partials must be >= 1: %d", partials)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi / period
	for i := range out {
		s := 0.0
		for h := 1; h <= partials; h++ {
			s += math.Sin(step*float64(h)*float64(i)) / float64(h)
		}
		out[i] = amplitude * s
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// DC generates a constant-valued signal.
func (g *Generator) DC(value float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("dc samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = value
	}
	return out, nil
}

// ToPCM converts normalized float samples to int16 PCM with hard clamping.
func ToPCM(x []float64) []int16 {
	out := make([]int16, len(x))
	for i, v := range x {
		out[i] = core.FloatToSample(v)
	}
	return out
}
