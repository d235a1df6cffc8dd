package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/resample"
	"github.com/cwbudde/algo-voice/dsp/stretch"
)

// MaxSemitones bounds the supported shift in either direction.
const MaxSemitones = 24.0

type config struct {
	quality    resample.Quality
	stretchOps []stretch.Option
}

// Option configures a Shifter.
type Option func(*config)

// WithQuality selects the resampling quality profile.
func WithQuality(q resample.Quality) Option {
	return func(cfg *config) { cfg.quality = q }
}

// WithFrameSize sets the phase-vocoder frame size.
func WithFrameSize(n int) Option {
	return func(cfg *config) { cfg.stretchOps = append(cfg.stretchOps, stretch.WithFrameSize(n)) }
}

// WithHop sets the phase-vocoder hop size.
func WithHop(n int) Option {
	return func(cfg *config) { cfg.stretchOps = append(cfg.stretchOps, stretch.WithHop(n)) }
}

// Shifter performs duration-preserving pitch shifting of mono buffers.
// It is not safe for concurrent use.
type Shifter struct {
	sampleRate float64
	semitones  float64
	quality    resample.Quality
	stretcher  *stretch.Stretcher
}

// NewShifter creates a Shifter at sampleRate with a zero shift.
func NewShifter(sampleRate float64, opts ...Option) (*Shifter, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: pitch sample rate must be positive and finite: %f",
			core.ErrInvalidInput, sampleRate)
	}

	cfg := config{quality: resample.QualityBalanced}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := stretch.New(cfg.stretchOps...)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	return &Shifter{
		sampleRate: sampleRate,
		quality:    cfg.quality,
		stretcher:  st,
	}, nil
}

// Shift is a one-shot helper around NewShifter, SetSemitones and Process.
func Shift(input []float64, sampleRate, semitones float64, opts ...Option) ([]float64, error) {
	s, err := NewShifter(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.SetSemitones(semitones); err != nil {
		return nil, err
	}

	return s.Process(input)
}

// SampleRate returns the sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// Semitones returns the configured shift.
func (s *Shifter) Semitones() float64 { return s.semitones }

// Ratio returns the frequency multiplier 2^(semitones/12).
func (s *Shifter) Ratio() float64 { return core.SemitonesToRatio(s.semitones) }

// SetSemitones sets the shift in semitones, in [-24, 24].
func (s *Shifter) SetSemitones(semitones float64) error {
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) || math.Abs(semitones) > MaxSemitones {
		return fmt.Errorf("%w: pitch shift must be within +-%g semitones: %f",
			core.ErrUnsupportedConfiguration, MaxSemitones, semitones)
	}

	s.semitones = semitones

	return nil
}

// Process returns input shifted by the configured number of semitones, with
// exactly len(input) samples. A zero shift returns a copy.
func (s *Shifter) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: pitch input is empty", core.ErrInvalidInput)
	}

	if s.semitones == 0 {
		return core.Clone(input), nil
	}

	rate := 1 / s.Ratio()

	stretched, err := s.stretcher.Process(input, rate)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	shifted, err := resample.Bandlimited(stretched, s.sampleRate/rate, s.sampleRate,
		resample.WithQuality(s.quality))
	if err != nil {
		return nil, fmt.Errorf("%w: pitch: %w", core.ErrInvalidInput, err)
	}

	return core.FixLength(shifted, len(input)), nil
}
