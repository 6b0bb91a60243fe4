package core

// 16-bit PCM sample range.
const (
	MaxSampleValue = 32767
	MinSampleValue = -32768

	// SampleScale converts between int16 PCM and normalized float samples.
	SampleScale = 32768.0
)

// SampleToFloat converts an int16 PCM sample to a normalized float in [-1, 1).
func SampleToFloat(s int16) float64 {
	return float64(s) / SampleScale
}

// FloatToSample converts a normalized float sample to int16 PCM, hard-clamping
// to the representable range so overflow never wraps around.
func FloatToSample(x float64) int16 {
	return int16(Clamp(x*SampleScale, MinSampleValue, MaxSampleValue))
}
