package stretch

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/stft"
)

const (
	// MinRate and MaxRate bound the supported stretch factors.
	MinRate = 0.05
	MaxRate = 20.0

	// DefaultFrameSize and DefaultHop are the vocoder defaults.
	DefaultFrameSize = stft.DefaultFrameSize
	DefaultHop       = stft.DefaultHop

	identityEps = 1e-12
)

// Option configures a Stretcher.
type Option = stft.Option

// WithFrameSize sets the STFT frame size (power of two, >= 64).
func WithFrameSize(n int) Option { return stft.WithFrameSize(n) }

// WithHop sets the STFT hop in samples.
func WithHop(n int) Option { return stft.WithHop(n) }

// Stretcher performs phase-vocoder time scaling. It keeps FFT plans and
// scratch memory between calls and is not safe for concurrent use.
type Stretcher struct {
	proc *stft.Processor
}

// New creates a Stretcher with a 2048-sample frame and 512-sample hop
// unless overridden.
func New(opts ...Option) (*Stretcher, error) {
	proc, err := stft.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}

	return &Stretcher{proc: proc}, nil
}

// FrameSize returns the STFT frame size.
func (s *Stretcher) FrameSize() int { return s.proc.FrameSize() }

// Hop returns the STFT hop size.
func (s *Stretcher) Hop() int { return s.proc.Hop() }

// OutputLen returns the number of samples Process yields for n input samples:
// round(n/rate), but never less than one sample for non-empty input.
func OutputLen(n int, rate float64) int {
	if n <= 0 {
		return 0
	}

	return max(1, int(math.RoundToEven(float64(n)/rate)))
}

// ValidateRate reports whether Process accepts rate.
func ValidateRate(rate float64) error {
	if !core.IsFinitePositive(rate) {
		return fmt.Errorf("%w: stretch rate must be positive and finite: %f", core.ErrInvalidInput, rate)
	}

	if rate < MinRate || rate > MaxRate {
		return fmt.Errorf("%w: stretch rate must be in [%g, %g]: %f",
			core.ErrUnsupportedConfiguration, MinRate, MaxRate, rate)
	}

	return nil
}

// Stretch is a one-shot helper around New and Process.
func Stretch(input []float64, sampleRate, rate float64, opts ...Option) ([]float64, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: stretch sample rate must be positive and finite: %f",
			core.ErrInvalidInput, sampleRate)
	}

	s, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return s.Process(input, rate)
}

// Process returns input time-scaled by rate. rate == 1 returns a copy.
func (s *Stretcher) Process(input []float64, rate float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: stretch input is empty", core.ErrInvalidInput)
	}

	if err := ValidateRate(rate); err != nil {
		return nil, err
	}

	outLen := OutputLen(len(input), rate)

	if math.Abs(rate-1) <= identityEps {
		return core.Clone(input), nil
	}

	spec, err := s.proc.Analyze(input)
	if err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}

	out, err := s.proc.Synthesize(s.vocode(spec, rate), outLen)
	if err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}

	return out, nil
}

// vocode resamples the spectrogram along time. Output frame t reads the
// fractional analysis position t*rate, interpolating magnitudes between the
// two neighbouring frames and accumulating phase from their deviation.
func (s *Stretcher) vocode(spec *stft.Spectrogram, rate float64) *stft.Spectrogram {
	frames := len(spec.Frames)
	bins := spec.Bins()

	outFrames := 0
	for float64(outFrames)*rate < float64(frames) {
		outFrames++
	}

	out := stft.NewSpectrogram(spec.FrameSize, spec.Hop, outFrames)

	mags := make([][]float64, frames)
	for t := range mags {
		mags[t] = make([]float64, bins)
		spec.Magnitudes(mags[t], t)
	}

	zeros := make([]float64, bins)
	magAt := func(t int) []float64 {
		if t < frames {
			return mags[t]
		}

		return zeros
	}

	phaseAt := func(t, k int) float64 {
		if t < frames {
			return cmplx.Phase(spec.Frames[t][k])
		}

		return 0
	}

	advance := make([]float64, bins)
	phaseAcc := make([]float64, bins)

	for k := range bins {
		advance[k] = 2 * math.Pi * float64(spec.Hop) * float64(k) / float64(spec.FrameSize)
		phaseAcc[k] = phaseAt(0, k)
	}

	for t := range outFrames {
		step := float64(t) * rate
		i0 := int(step)
		alpha := step - float64(i0)

		m0, m1 := magAt(i0), magAt(i0+1)

		for k := range bins {
			mag := (1-alpha)*m0[k] + alpha*m1[k]
			out.Frames[t][k] = cmplx.Rect(mag, phaseAcc[k])

			dphase := phaseAt(i0+1, k) - phaseAt(i0, k) - advance[k]
			dphase -= 2 * math.Pi * math.RoundToEven(dphase/(2*math.Pi))
			phaseAcc[k] += advance[k] + dphase
		}
	}

	return out
}
