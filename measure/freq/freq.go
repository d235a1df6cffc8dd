package freq

import (
	"errors"
	"fmt"
	"math"
	"slices"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	// DefaultMinHz and DefaultMaxHz bound the autocorrelation lag search.
	DefaultMinHz = 50.0
	DefaultMaxHz = 2000.0

	maxFFTSize = 1 << 22
)

var (
	// ErrEmptyInput is returned for zero-length input.
	ErrEmptyInput = errors.New("freq: empty input")
	// ErrInvalidRate is returned for a non-positive or non-finite sample rate.
	ErrInvalidRate = errors.New("freq: invalid sample rate")
	// ErrInvalidRange is returned when minHz/maxHz do not form a usable lag range.
	ErrInvalidRange = errors.New("freq: invalid frequency range")
)

// SpectralPeak returns the frequency in Hz of the strongest spectral
// component of x. Silent input yields 0.
func SpectralPeak(x []float64, sampleRate float64) (float64, error) {
	if err := validate(x, sampleRate); err != nil {
		return 0, err
	}

	n := len(x)
	if n > maxFFTSize {
		n = maxFFTSize
	}

	size := nextPowerOf2(n)

	windowed := slices.Clone(x[:n])
	window.Apply(window.TypeHann, windowed)

	mags, err := magnitudeSpectrum(windowed, size)
	if err != nil {
		return 0, err
	}

	peak := 1
	for k := 2; k < len(mags)-1; k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}

	if mags[peak] == 0 {
		return 0, nil
	}

	delta := parabolicOffset(mags[peak-1], mags[peak], mags[peak+1])

	return (float64(peak) + delta) * sampleRate / float64(size), nil
}

// Autocorrelation estimates the fundamental frequency of x from the highest
// local maximum of its normalised autocorrelation between the lags that
// correspond to maxHz and minHz. Silent input yields 0.
func Autocorrelation(x []float64, sampleRate, minHz, maxHz float64) (float64, error) {
	if err := validate(x, sampleRate); err != nil {
		return 0, err
	}

	if minHz <= 0 || maxHz <= minHz || math.IsNaN(minHz) || math.IsNaN(maxHz) {
		return 0, fmt.Errorf("%w: [%f, %f]", ErrInvalidRange, minHz, maxHz)
	}

	n := len(x)
	if 2*n > maxFFTSize {
		n = maxFFTSize / 2
	}

	lagMin := int(math.Floor(sampleRate / maxHz))
	lagMax := int(math.Ceil(sampleRate / minHz))

	if lagMin < 1 {
		lagMin = 1
	}

	if lagMax > n-2 {
		lagMax = n - 2
	}

	if lagMax-lagMin < 2 {
		return 0, fmt.Errorf("%w: clip of %d samples is too short for [%f, %f] Hz",
			ErrInvalidRange, n, minHz, maxHz)
	}

	r, err := autocorrelate(x[:n])
	if err != nil {
		return 0, err
	}

	if r[0] <= 0 {
		return 0, nil
	}

	best := -1
	for lag := lagMin + 1; lag < lagMax; lag++ {
		if r[lag] > r[lag-1] && r[lag] >= r[lag+1] {
			if best < 0 || r[lag] > r[best] {
				best = lag
			}
		}
	}

	if best < 0 {
		return 0, nil
	}

	lag := float64(best) + parabolicOffset(r[best-1], r[best], r[best+1])

	return sampleRate / lag, nil
}

// autocorrelate returns the linear (non-circular) autocorrelation of x for
// lags [0, len(x)).
func autocorrelate(x []float64) ([]float64, error) {
	size := nextPowerOf2(2 * len(x))

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("freq: failed to create FFT plan: %w", err)
	}

	buf := make([]complex128, size)
	for i, v := range x {
		buf[i] = complex(v, 0)
	}

	if err := plan.Forward(buf, buf); err != nil {
		return nil, fmt.Errorf("freq: forward FFT failed: %w", err)
	}

	for k, v := range buf {
		buf[k] = complex(real(v)*real(v)+imag(v)*imag(v), 0)
	}

	if err := plan.Inverse(buf, buf); err != nil {
		return nil, fmt.Errorf("freq: inverse FFT failed: %w", err)
	}

	r := make([]float64, len(x))
	for i := range r {
		r[i] = real(buf[i])
	}

	return r, nil
}

func magnitudeSpectrum(x []float64, size int) ([]float64, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("freq: failed to create FFT plan: %w", err)
	}

	buf := make([]complex128, size)
	for i, v := range x {
		buf[i] = complex(v, 0)
	}

	if err := plan.Forward(buf, buf); err != nil {
		return nil, fmt.Errorf("freq: forward FFT failed: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(buf[k])
		im[k] = imag(buf[k])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	return mags, nil
}

func parabolicOffset(a, b, c float64) float64 {
	den := a - 2*b + c
	if den == 0 {
		return 0
	}

	d := 0.5 * (a - c) / den
	if d > 0.5 || d < -0.5 {
		return 0
	}

	return d
}

func validate(x []float64, sampleRate float64) error {
	if len(x) == 0 {
		return ErrEmptyInput
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidRate, sampleRate)
	}

	return nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	if p < 4 {
		p = 4
	}

	return p
}
