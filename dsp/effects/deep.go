package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/filter/biquad"
	"github.com/cwbudde/algo-voice/dsp/filter/design"
	"github.com/cwbudde/algo-voice/dsp/resample"
)

const (
	defaultDeepRatio    = 0.9
	defaultDeepGainDB   = 5.0
	defaultDeepCutoffHz = 500.0

	maxDeepGainDB = 24.0
)

// DeepVoice darkens a voice: it resamples to ratio*sampleRate, forces the
// result back to the input length (truncating or zero-padding), boosts it and
// low-passes it at the original rate.
//
// The default filter is a first-order RC low-pass whose first output equals
// the first input. SetResonance switches to a second-order RBJ low-pass.
type DeepVoice struct {
	sampleRate float64
	ratio      float64
	gainDB     float64
	cutoffHz   float64
	q          float64
	quality    resample.Quality
}

// NewDeepVoice creates a deep-voice effect with ratio 0.9, +5 dB and a
// 500 Hz low-pass.
func NewDeepVoice(sampleRate float64) (*DeepVoice, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: deep voice sample rate must be > 0: %f", core.ErrInvalidInput, sampleRate)
	}

	return &DeepVoice{
		sampleRate: sampleRate,
		ratio:      defaultDeepRatio,
		gainDB:     defaultDeepGainDB,
		cutoffHz:   defaultDeepCutoffHz,
		quality:    resample.QualityBalanced,
	}, nil
}

// ApplyDeep applies the default deep-voice effect.
func ApplyDeep(input []float64, sampleRate float64) ([]float64, error) {
	d, err := NewDeepVoice(sampleRate)
	if err != nil {
		return nil, err
	}

	return d.Process(input)
}

// SetRatio sets the resample ratio in (0, 2].
func (d *DeepVoice) SetRatio(ratio float64) error {
	if !core.IsFinitePositive(ratio) || ratio > 2 {
		return fmt.Errorf("%w: deep voice ratio must be in (0, 2]: %f", core.ErrUnsupportedConfiguration, ratio)
	}

	d.ratio = ratio

	return nil
}

// SetGainDB sets the post gain in dB, in [-24, 24].
func (d *DeepVoice) SetGainDB(db float64) error {
	if math.IsNaN(db) || math.Abs(db) > maxDeepGainDB {
		return fmt.Errorf("%w: deep voice gain must be in [-%g, %g] dB: %f",
			core.ErrUnsupportedConfiguration, maxDeepGainDB, maxDeepGainDB, db)
	}

	d.gainDB = db

	return nil
}

// SetCutoff sets the low-pass cutoff in Hz.
func (d *DeepVoice) SetCutoff(hz float64) error {
	if !core.IsFinitePositive(hz) {
		return fmt.Errorf("%w: deep voice cutoff must be > 0: %f", core.ErrUnsupportedConfiguration, hz)
	}

	d.cutoffHz = hz

	return nil
}

// SetResonance selects the low-pass: 0 for the first-order RC filter, q > 0
// for a second-order RBJ low-pass with that quality factor.
func (d *DeepVoice) SetResonance(q float64) error {
	if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: deep voice resonance must be >= 0: %f", core.ErrUnsupportedConfiguration, q)
	}

	d.q = q

	return nil
}

// SetQuality selects the resampling quality profile.
func (d *DeepVoice) SetQuality(q resample.Quality) { d.quality = q }

// TargetRate returns round(sampleRate*ratio).
func (d *DeepVoice) TargetRate() float64 { return math.Round(d.sampleRate * d.ratio) }

// Coefficients returns the low-pass design in use.
func (d *DeepVoice) Coefficients() biquad.Coefficients {
	if d.q > 0 {
		return design.Lowpass(d.cutoffHz, d.q, d.sampleRate)
	}

	return design.OnePoleLowpass(d.cutoffHz, d.sampleRate)
}

// Process returns the effect applied to input, with exactly len(input)
// samples.
func (d *DeepVoice) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: deep voice input is empty", core.ErrInvalidInput)
	}

	target := d.TargetRate()
	if target <= 0 {
		return nil, fmt.Errorf("%w: deep voice target rate rounds to %g Hz", core.ErrInvalidInput, target)
	}

	coeffs := d.Coefficients()
	if coeffs == (biquad.Coefficients{}) {
		return nil, fmt.Errorf("%w: deep voice low-pass at %g Hz is not realisable at %g Hz",
			core.ErrUnsupportedConfiguration, d.cutoffHz, d.sampleRate)
	}

	resampled, err := resample.Bandlimited(input, d.sampleRate, target, resample.WithQuality(d.quality))
	if err != nil {
		return nil, fmt.Errorf("%w: deep voice: %w", core.ErrInvalidInput, err)
	}

	out := core.FixLength(resampled, len(input))

	g := core.DBToLinear(d.gainDB)
	for i := range out {
		out[i] *= g
	}

	lp := biquad.NewSection(coeffs)
	lp.PrimeDC(out[0])
	lp.ProcessBlock(out)

	return out, nil
}

// SampleRate returns sample rate in Hz.
func (d *DeepVoice) SampleRate() float64 { return d.sampleRate }

// Ratio returns the resample ratio.
func (d *DeepVoice) Ratio() float64 { return d.ratio }

// GainDB returns the post gain in dB.
func (d *DeepVoice) GainDB() float64 { return d.gainDB }

// Cutoff returns the low-pass cutoff in Hz.
func (d *DeepVoice) Cutoff() float64 { return d.cutoffHz }
