package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/dsp/resample"
)

func ExampleNewForRates() {
	r, _ := resample.NewForRates(44100, 48000, resample.WithQuality(resample.QualityBest))
	up, down := r.Ratio()
	fmt.Printf("ratio=%d/%d\n", up, down)
	// Output:
	// ratio=160/147
}

func ExampleBandlimited() {
	in := make([]float64, 1000)
	out, _ := resample.Bandlimited(in, 44100, 39690)
	fmt.Printf("in=%d out=%d\n", len(in), len(out))
	// Output:
	// in=1000 out=900
}
