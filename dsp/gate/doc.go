// Package gate implements an adaptive noise gate for microphone capture.
//
// The gate learns the ambient noise floor from a rolling loudness history
// and opens when a frame contains enough samples that stand well above the
// floor. Closing is delayed by a few frames of hysteresis so natural pauses
// in speech do not chop the stream. A one-pole DC offset remover keeps the
// loudness measurement honest on hardware with biased converters.
//
// The package analyzes frames and exposes state; it never silences audio
// itself. Callers decide what a closed gate means.
package gate
