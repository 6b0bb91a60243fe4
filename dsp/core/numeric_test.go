package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -2, 0, 1, 0},
		{"above", 3, 0, 1, 1},
		{"at min", 0, 0, 1, 0},
		{"at max", 1, 0, 1, 1},
		{"swapped bounds", 5, 10, 0, 5},
		{"negative range", -40000, MinSampleValue, MaxSampleValue, MinSampleValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
				t.Errorf("Clamp(%f, %f, %f) = %f, want %f", tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		eps  float64
		want bool
	}{
		{"identical", 1.0, 1.0, 1e-9, true},
		{"within eps", 1.0, 1.0 + 1e-12, 1e-9, true},
		{"outside eps", 1.0, 1.1, 1e-9, false},
		{"both zero", 0, 0, 1e-9, true},
		{"default eps", 1.0, 1.0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearlyEqual(tt.a, tt.b, tt.eps); got != tt.want {
				t.Errorf("NearlyEqual(%f, %f, %g) = %v, want %v", tt.a, tt.b, tt.eps, got, tt.want)
			}
		})
	}
}

func TestSampleConversionRoundTrip(t *testing.T) {
	for _, s := range []int16{MinSampleValue, -1234, 0, 1, 1234, MaxSampleValue} {
		got := FloatToSample(SampleToFloat(s))
		if got != s {
			t.Errorf("FloatToSample(SampleToFloat(%d)) = %d", s, got)
		}
	}
}

func TestFloatToSampleClamps(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want int16
	}{
		{"positive overflow", 2.0, MaxSampleValue},
		{"negative overflow", -2.0, MinSampleValue},
		{"exact positive limit", float64(MaxSampleValue) / SampleScale, MaxSampleValue},
		{"exact negative limit", -1.0, MinSampleValue},
		{"huge", math.MaxFloat64, MaxSampleValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloatToSample(tt.x); got != tt.want {
				t.Errorf("FloatToSample(%f) = %d, want %d", tt.x, got, tt.want)
			}
		})
	}
}

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(24000), WithFrameSize(240))
	if cfg.SampleRate != 24000 || cfg.FrameSize != 240 {
		t.Fatalf("ApplyProcessorOptions() = %+v", cfg)
	}

	cfg = ApplyProcessorOptions(WithSampleRate(-1), WithFrameSize(0), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("invalid options should keep defaults: got %+v, want %+v", cfg, def)
	}
}
