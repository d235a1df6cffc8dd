package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-voice/dsp/core"
)

func ExampleFixLength() {
	fmt.Println(core.FixLength([]float64{1, 2, 3}, 2))
	fmt.Println(core.FixLength([]float64{1, 2}, 4))

	// Output:
	// [1 2]
	// [1 2 0 0]
}

func ExampleDBToLinear() {
	fmt.Printf("%.3f\n", core.DBToLinear(5))

	// Output:
	// 1.778
}
