package pitch

import "github.com/kencooke/hifi/dsp/delay"

const (
	// PeriodMax is the longest detectable fundamental period in samples,
	// and also the analysis frame length.
	PeriodMax = 256

	// PeriodMin is the shortest detectable fundamental period in samples.
	PeriodMin = 32

	// yinThreshold is the normalized difference below which a local
	// minimum is accepted as the fundamental period. Smaller values
	// demand cleaner periodicity before locking on.
	yinThreshold = 0.1
)

// Detector estimates the fundamental period of successive analysis frames
// using the YIN difference function against a mirrored sample history.
//
// The normalized difference state carries over between frames, which lets a
// local minimum straddling a frame boundary still be found.
type Detector struct {
	dt    [PeriodMax + 1]float64
	cumDt [PeriodMax + 1]float64
	dpt   [PeriodMax + 1]float64
}

// NewDetector returns a period detector with cleared difference state.
func NewDetector() *Detector {
	d := &Detector{}
	d.dpt[0] = 1
	return d
}

// Detect pushes the frame into history and returns the estimated fundamental
// period in samples, clamped to [PeriodMin, PeriodMax]. The frame must be
// PeriodMax samples long; history must span at least PeriodMax samples of
// lag for every sample in the frame.
func (d *Detector) Detect(history *delay.MirroredLine, frame []float64) int {
	for lag := 1; lag <= PeriodMax; lag++ {
		d.dt[lag] = 0
	}

	// Difference function: squared error between the frame and its own
	// past at every candidate lag.
	for _, x := range frame {
		history.Push(x)
		for lag := 1; lag <= PeriodMax; lag++ {
			diff := x - history.At(lag)
			d.dt[lag] += diff * diff
		}
	}

	// Cumulative mean normalization, with the first local minimum below
	// the threshold winning. If nothing dips under the threshold the
	// deepest local minimum seen is used instead.
	altPeriod := PeriodMax
	period := PeriodMax + 1
	for lag := PeriodMin; lag <= PeriodMax; lag++ {
		d.cumDt[lag] = d.dt[lag] + d.cumDt[lag-1]
		if d.cumDt[lag] > 0 {
			d.dpt[lag] = d.dt[lag] * float64(lag) / d.cumDt[lag]
		} else {
			d.dpt[lag] = 1
		}

		if d.dpt[lag-1]-d.dpt[lag-2] < 0 && d.dpt[lag]-d.dpt[lag-1] > 0 {
			if d.dpt[lag-1] < yinThreshold {
				period = lag - 1
				break
			}
			if d.dpt[altPeriod] > d.dpt[lag-1] {
				altPeriod = lag - 1
			}
		}
	}
	if period > PeriodMax {
		period = altPeriod
	}

	if period < PeriodMin {
		period = PeriodMin
	}
	if period > PeriodMax {
		period = PeriodMax
	}
	return period
}

// Reset clears all difference state.
func (d *Detector) Reset() {
	*d = Detector{}
	d.dpt[0] = 1
}
