package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
)

const (
	defaultEchoTimeSeconds = 0.15
	defaultEchoGain        = 0.3
	maxEchoTimeSeconds     = 5.0
)

// Echo adds a single attenuated, delayed copy of the signal to itself:
//
//	out[i] = in[i] + gain*in[i-delay]   for i >= delay
//
// There is no feedback and no clipping.
type Echo struct {
	sampleRate   float64
	delaySeconds float64
	gain         float64

	delaySamples int
}

// NewEcho creates an echo with a 150 ms delay and 0.3 gain.
func NewEcho(sampleRate float64) (*Echo, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: echo sample rate must be > 0: %f", core.ErrInvalidInput, sampleRate)
	}

	e := &Echo{
		sampleRate:   sampleRate,
		delaySeconds: defaultEchoTimeSeconds,
		gain:         defaultEchoGain,
	}
	e.updateDelay()

	return e, nil
}

// AddEcho applies the default echo to input at sampleRate and returns a new
// buffer of the same length.
func AddEcho(input []float64, sampleRate float64) ([]float64, error) {
	e, err := NewEcho(sampleRate)
	if err != nil {
		return nil, err
	}

	return e.Process(input), nil
}

// SetTime sets the delay in seconds, in [0, 5].
func (e *Echo) SetTime(seconds float64) error {
	if seconds < 0 || seconds > maxEchoTimeSeconds || math.IsNaN(seconds) {
		return fmt.Errorf("%w: echo time must be in [0, %g]: %f",
			core.ErrUnsupportedConfiguration, maxEchoTimeSeconds, seconds)
	}

	e.delaySeconds = seconds
	e.updateDelay()

	return nil
}

// SetGain sets the echo level in [0, 1].
func (e *Echo) SetGain(gain float64) error {
	if gain < 0 || gain > 1 || math.IsNaN(gain) {
		return fmt.Errorf("%w: echo gain must be in [0, 1]: %f", core.ErrUnsupportedConfiguration, gain)
	}

	e.gain = gain

	return nil
}

// Process returns input with the echo added. Inputs not longer than the
// delay are returned unchanged (as a copy).
func (e *Echo) Process(input []float64) []float64 {
	out := core.Clone(input)
	e.ProcessInPlace(out)

	return out
}

// ProcessInPlace adds the echo to buf in place.
func (e *Echo) ProcessInPlace(buf []float64) {
	d := e.delaySamples
	if d == 0 {
		g := 1 + e.gain
		for i := range buf {
			buf[i] *= g
		}

		return
	}

	// Walk backwards so every read sees the unmodified input.
	for i := len(buf) - 1; i >= d; i-- {
		buf[i] += e.gain * buf[i-d]
	}
}

// SampleRate returns sample rate in Hz.
func (e *Echo) SampleRate() float64 { return e.sampleRate }

// Time returns the delay in seconds.
func (e *Echo) Time() float64 { return e.delaySeconds }

// Gain returns the echo level.
func (e *Echo) Gain() float64 { return e.gain }

// DelaySamples returns round(time*sampleRate).
func (e *Echo) DelaySamples() int { return e.delaySamples }

func (e *Echo) updateDelay() {
	e.delaySamples = int(math.Round(e.delaySeconds * e.sampleRate))
}
