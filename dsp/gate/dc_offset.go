package gate

const dcOffsetAveragingCoef = 0.99

// RemoveDCOffset subtracts the running DC bias estimate from the frame in
// place and then folds the frame's mean into the estimate with a one-pole
// average. The very first frame seeds the estimate directly so convergence
// does not start from zero.
//
// Correction uses the estimate from before this frame, so a constant input
// decays toward zero over successive frames rather than snapping.
func (e *Estimator) RemoveDCOffset(samples []int16) {
	if len(samples) == 0 {
		return
	}

	frameMean := 0.0
	for i, s := range samples {
		frameMean += float64(s)
		if e.dcOffset != 0 {
			samples[i] = s - int16(e.dcOffset)
		}
	}
	frameMean /= float64(len(samples))

	if e.dcOffset == 0 {
		e.dcOffset = frameMean
	} else {
		e.dcOffset = e.dcOffset*dcOffsetAveragingCoef + frameMean*(1-dcOffsetAveragingCoef)
	}
}
