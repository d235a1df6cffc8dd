package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsFinitePositive(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinitePositive(v) {
			t.Fatalf("IsFinitePositive(%v) = true", v)
		}
	}
	if !IsFinitePositive(44100) {
		t.Fatal("IsFinitePositive(44100) = false")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if math.Abs(db+6) > 1e-10 {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if math.Abs(DBToLinear(5)-1.7782794100389228) > 1e-12 {
		t.Fatalf("DBToLinear(5) = %v", DBToLinear(5))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestSemitonesToRatio(t *testing.T) {
	if got := SemitonesToRatio(12); math.Abs(got-2) > 1e-12 {
		t.Fatalf("SemitonesToRatio(12) = %v, want 2", got)
	}
	if got := SemitonesToRatio(-12); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("SemitonesToRatio(-12) = %v, want 0.5", got)
	}
	if got := SemitonesToRatio(0); got != 1 {
		t.Fatalf("SemitonesToRatio(0) = %v, want 1", got)
	}
}
