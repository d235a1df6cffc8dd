package resample

import (
	"errors"
	"fmt"
	"math"
)

// kernelOversample is the number of table entries per sinc zero crossing.
const kernelOversample = 512

func designPolyphaseFIR(up, down int, cfg config) ([]float64, [][]float64, int, error) {
	if up <= 0 || down <= 0 {
		return nil, nil, 0, ErrInvalidRatio
	}

	if cfg.tapsPerPhase <= 0 {
		return nil, nil, 0, errors.New("resample: taps per phase must be > 0")
	}

	nTaps := cfg.tapsPerPhase * up

	fc := (0.5 / float64(max(up, down))) * cfg.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, nil, 0, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)

	var sum float64

	for n := range nTaps {
		t := float64(n) - center

		u := 0.0
		if center > 0 {
			u = t / center
		}

		taps[n] = 2 * fc * sinc(2*fc*t) * kaiser(u, cfg.kaiserBeta)
		sum += taps[n]
	}

	if sum == 0 {
		return nil, nil, 0, errors.New("resample: designed zero-sum filter")
	}

	// Unity DC gain per output phase.
	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	phases := make([][]float64, up)
	maxPhaseLn := 0

	for p := range up {
		phase := make([]float64, 0, (nTaps-p+up-1)/up)
		for i := p; i < nTaps; i += up {
			phase = append(phase, taps[i])
		}

		maxPhaseLn = max(maxPhaseLn, len(phase))
		phases[p] = phase
	}

	return taps, phases, maxPhaseLn, nil
}

// designKernel tabulates the right half of a Kaiser-windowed sinc spanning
// zeroCrossings lobes, kernelOversample entries per lobe. Entry 0 is the
// centre tap.
func designKernel(zeroCrossings int, beta float64) []float64 {
	n := zeroCrossings*kernelOversample + 1
	table := make([]float64, n+1)

	for i := range n {
		v := float64(i) / kernelOversample
		table[i] = sinc(v) * kaiser(v/float64(zeroCrossings), beta)
	}

	return table
}

// approximateRatio returns the best continued-fraction approximation of v
// with denominator <= maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if maxDen <= 0 {
		maxDen = 4096
	}

	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v

	for {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}

		x = 1 / frac
		a := math.Floor(x)

		p2 := a*p1 + p0
		q2 := a*q1 + q0

		if q2 > float64(maxDen) {
			break
		}

		p0, q0 = p1, q1
		p1, q1 = p2, q2
	}

	num = int(math.Round(p1))
	den = int(math.Round(q1))

	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	if a == 0 {
		return 1
	}

	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

// kaiser evaluates the Kaiser window at normalized position u in [-1, 1].
func kaiser(u, beta float64) float64 {
	if beta == 0 {
		return 1
	}

	return i0(beta*math.Sqrt(math.Max(0, 1-u*u))) / i0(beta)
}

func i0(x float64) float64 {
	// Power series approximation.
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
