// Package pitch implements time-domain pitch shifting for voiced audio.
//
// A Tracker detects the fundamental period of each analysis frame with the
// YIN cumulative mean normalized difference function, then resynthesizes the
// frame from raised-cosine grains extracted one period apart and overlap-added
// at a spacing scaled by the shift ratio. Because grains are whole periods of
// the original waveform, formants ride along unchanged and shifted speech
// keeps its timbre.
//
// Processing is sample-by-sample with a fixed latency of PeriodMax samples;
// resynthesis runs once per PeriodMax input samples.
package pitch
