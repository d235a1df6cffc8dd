package voice

import "fmt"

// EffectConfig selects the transformation. It is a value type; the pipeline
// never mutates it.
type EffectConfig struct {
	// PitchSemitones shifts pitch; 0 leaves it unchanged. The UI suggests
	// [-12, 12], the pitch stage accepts [-24, 24].
	PitchSemitones float64
	// SpeedFactor scales tempo: < 1 slows down and lengthens, > 1 speeds up
	// and shortens. The UI suggests [0.5, 2].
	SpeedFactor float64
	// Echo adds a 150 ms echo at 30% level.
	Echo bool
	// Deep applies the deep-voice effect.
	Deep bool
}

// DefaultEffectConfig returns the interactive defaults: -3 semitones, 0.9x
// speed, echo and deep voice on.
func DefaultEffectConfig() EffectConfig {
	return EffectConfig{PitchSemitones: -3, SpeedFactor: 0.9, Echo: true, Deep: true}
}

// IdentityConfig returns the configuration that leaves a clip unchanged.
func IdentityConfig() EffectConfig {
	return EffectConfig{SpeedFactor: 1}
}

func (c EffectConfig) String() string {
	return fmt.Sprintf("pitch=%+.2fst speed=%.2fx echo=%t deep=%t", c.PitchSemitones, c.SpeedFactor, c.Echo, c.Deep)
}
