package resample

import (
	"fmt"
	"math"
)

// BandlimitedLen returns the output length of Bandlimited for n input samples.
func BandlimitedLen(n int, inRate, outRate float64) int {
	if n <= 0 {
		return 0
	}

	return int(math.Ceil(float64(n) * outRate / inRate))
}

// Bandlimited resamples input from inRate to outRate for any real ratio.
// The anti-aliasing cutoff follows the lower of the two Nyquist rates scaled
// by the quality profile. The result has ceil(len(input)*outRate/inRate)
// samples; equal rates return a copy.
func Bandlimited(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, fmt.Errorf("%w: %f -> %f", ErrInvalidRate, inRate, outRate)
	}

	if inRate == outRate {
		out := make([]float64, len(input))
		copy(out, input)

		return out, nil
	}

	cfg := newConfig(opts)
	ratio := outRate / inRate
	kernel := designKernel(cfg.tapsPerPhase, cfg.kaiserBeta)

	scale := math.Min(1, ratio) * cfg.cutoffScale
	halfWidth := float64(cfg.tapsPerPhase) / scale
	limit := float64(cfg.tapsPerPhase)

	n := len(input)
	out := make([]float64, BandlimitedLen(n, inRate, outRate))

	for m := range out {
		t := float64(m) / ratio
		lo := max(0, int(math.Ceil(t-halfWidth)))
		hi := min(n-1, int(math.Floor(t+halfWidth)))

		var y float64

		for i := lo; i <= hi; i++ {
			v := math.Abs(float64(i)-t) * scale
			if v >= limit {
				continue
			}

			pos := v * kernelOversample
			k := int(pos)
			frac := pos - float64(k)
			y += input[i] * (kernel[k] + frac*(kernel[k+1]-kernel[k]))
		}

		out[m] = scale * y
	}

	return out, nil
}
