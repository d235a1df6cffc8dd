package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/dsp/filter/design"
)

func ExampleOnePoleLowpass() {
	c := design.OnePoleLowpass(500, 44100)

	fmt.Printf("alpha=%.4f\n", c.B0)
	fmt.Printf("100 Hz:   %.2f dB\n", c.MagnitudeDB(100, 44100))
	fmt.Printf("5000 Hz:  %.2f dB\n", c.MagnitudeDB(5000, 44100))
	// Output:
	// alpha=0.0665
	// 100 Hz:   -0.18 dB
	// 5000 Hz:  -20.16 dB
}
