// Command micfilter runs a raw PCM stream through the microphone capture
// pre-processor: DC offset removal, adaptive noise gating, and optional
// formant-preserving pitch shifting.
//
// Input is signed 16-bit little-endian mono PCM on stdin; the processed
// stream is written to stdout in the same format. Gate telemetry goes to
// stderr.
//
// Usage:
//
//	micfilter [flags] < in.raw > out.raw
//
// Examples:
//
//	micfilter -shift 1.5 < capture.raw > shifted.raw
//	micfilter -mute -telemetry < capture.raw > gated.raw
//	arecord -f S16_LE -r 48000 -c 1 | micfilter -shift 0.8 | aplay -f S16_LE -r 48000 -c 1
package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kencooke/hifi/dsp/core"
	"github.com/kencooke/hifi/dsp/preprocess"
)

func main() {
	frameSize := flag.Int("frame", core.DefaultFrameSize, "frame length in samples")
	shift := flag.Float64("shift", 1.0, "pitch shift factor (2 = octave up, 0.5 = octave down)")
	mute := flag.Bool("mute", false, "silence frames while the noise gate is closed")
	telemetry := flag.Bool("telemetry", false, "print per-frame gate telemetry to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: micfilter [flags] < in.raw > out.raw\n\n")
		fmt.Fprintf(os.Stderr, "Processes signed 16-bit little-endian mono PCM from stdin to stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *frameSize <= 0 {
		fmt.Fprintf(os.Stderr, "error: frame length must be > 0, got %d\n", *frameSize)
		os.Exit(1)
	}

	if err := run(os.Stdin, os.Stdout, os.Stderr, *frameSize, *shift, *mute, *telemetry); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out, diag io.Writer, frameSize int, shift float64, mute, telemetry bool) error {
	p := preprocess.New(
		preprocess.WithShift(shift),
		preprocess.WithMute(mute),
	)

	r := bufio.NewReader(in)
	w := bufio.NewWriter(out)
	defer w.Flush()

	raw := make([]byte, 2*frameSize)
	frame := make([]int16, frameSize)
	frameIndex := 0

	for {
		n, err := io.ReadFull(r, raw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("read input: %w", err)
		}

		// A trailing partial frame is processed as-is.
		samples := frame[:n/2]
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
		}

		if perr := p.ProcessFrame(samples); perr != nil {
			return fmt.Errorf("process frame %d: %w", frameIndex, perr)
		}

		for i, s := range samples {
			binary.LittleEndian.PutUint16(raw[2*i:], uint16(s))
		}
		if _, werr := w.Write(raw[:2*len(samples)]); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}

		if telemetry {
			m := p.Gate().GetMetrics()
			fmt.Fprintf(diag, "frame %6d  open=%-5v loudness=%8.1f floor=%8.1f dc=%7.1f clip=%v period=%d\n",
				frameIndex, m.IsOpen, m.LastLoudness, m.MeasuredFloor, m.DCOffset, m.DidClip, p.Tracker().Period())
		}
		frameIndex++

		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
	}
}
