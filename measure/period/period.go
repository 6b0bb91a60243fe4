// Package period estimates the dominant period of an oscillatory signal from
// its interpolated spectral peak.
package period

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/kencooke/hifi/dsp/spectrum"
	"github.com/kencooke/hifi/dsp/window"
)

// padFactor is the minimum zero-padding ratio before the FFT. Padding
// refines the bin spacing so the parabolic fit lands close to the true
// frequency.
const padFactor = 4

// Measure returns the dominant period of x in samples: the signal is Hann
// windowed, zero padded, transformed, and the strongest non-DC magnitude
// bin is refined with a parabolic fit over its neighbors.
//
// The input must be oscillatory and span at least a few periods; constant
// or near-constant input yields a meaningless estimate.
func Measure(x []float64) (float64, error) {
	if len(x) < 4 {
		return 0, fmt.Errorf("period measure needs at least 4 samples, got %d", len(x))
	}

	coeffs := window.Generate(window.TypeHann, len(x))
	windowed, err := window.ApplyCoefficients(x, coeffs)
	if err != nil {
		return 0, fmt.Errorf("window signal: %w", err)
	}

	fftSize := nextPowerOf2(padFactor * len(x))
	inData := make([]complex128, fftSize)
	for i, v := range windowed {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("create fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return 0, fmt.Errorf("forward fft: %w", err)
	}

	mags := spectrum.Magnitude(out[: fftSize/2+1])

	peak := 1
	for k := 2; k < fftSize/2; k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}
	if mags[peak] == 0 {
		return 0, fmt.Errorf("no spectral peak in %d samples", len(x))
	}

	// Parabolic refinement over the peak and its neighbors.
	alpha, beta, gamma := mags[peak-1], mags[peak], mags[peak+1]
	delta := 0.0
	if denom := alpha - 2*beta + gamma; denom != 0 {
		delta = 0.5 * (alpha - gamma) / denom
	}

	return float64(fftSize) / (float64(peak) + delta), nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
