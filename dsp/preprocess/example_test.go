package preprocess_test

import (
	"fmt"

	"github.com/kencooke/hifi/dsp/preprocess"
	"github.com/kencooke/hifi/dsp/signal"
)

func ExamplePipeline() {
	gen := signal.NewGenerator(nil)
	tone, _ := gen.Harmonic(64, 0.3, 5, 512)
	pcm := signal.ToPCM(tone)

	p := preprocess.New(preprocess.WithShift(2))
	for off := 0; off < len(pcm); off += 256 {
		if err := p.ProcessFrame(pcm[off : off+256]); err != nil {
			fmt.Println(err)
			return
		}
	}

	fmt.Printf("gate open: %v\n", p.IsOpen())
	fmt.Printf("detected period: %d samples\n", p.Tracker().Period())
	fmt.Printf("shift factor: %.1f\n", p.Shift())
	// Output:
	// gate open: true
	// detected period: 64 samples
	// shift factor: 2.0
}
