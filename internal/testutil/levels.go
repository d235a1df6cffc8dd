package testutil

import (
	"fmt"
	"math"
)

// RMS returns the root-mean-square level of data, or 0 for an empty slice.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, v := range data {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(data)))
}

// Peak returns the largest absolute sample value in data.
func Peak(data []float64) float64 {
	var peak float64
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}

	return peak
}

// Segment returns data[from:to] clamped to the slice bounds.
func Segment(data []float64, from, to int) []float64 {
	from = max(0, min(from, len(data)))
	to = max(from, min(to, len(data)))

	return data[from:to]
}

// MaxAbsDiff returns the largest elementwise distance between a and b.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("testutil: lengths differ: %d != %d", len(a), len(b))
	}

	var worst float64
	for i, v := range a {
		worst = math.Max(worst, math.Abs(v-b[i]))
	}

	return worst, nil
}
