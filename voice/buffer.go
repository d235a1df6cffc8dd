package voice

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// SampleBuffer is a decoded clip: one slice of samples in [-1, 1] per
// channel, all of equal length, at SampleRate Hz.
type SampleBuffer struct {
	Channels   [][]float64
	SampleRate int
}

// NewMono wraps samples as a single-channel buffer without copying.
func NewMono(samples []float64, sampleRate int) *SampleBuffer {
	return &SampleBuffer{Channels: [][]float64{samples}, SampleRate: sampleRate}
}

// NumChannels returns the channel count.
func (b *SampleBuffer) NumChannels() int { return len(b.Channels) }

// Len returns the number of frames (samples per channel).
func (b *SampleBuffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

// Duration returns the clip length.
func (b *SampleBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(b.Len()) / float64(b.SampleRate) * float64(time.Second))
}

// Validate checks that the buffer is non-empty, rectangular and has a
// positive sample rate.
func (b *SampleBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil sample buffer", ErrInvalidInput)
	}

	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0: %d", ErrInvalidInput, b.SampleRate)
	}

	if len(b.Channels) == 0 || b.Len() == 0 {
		return fmt.Errorf("%w: sample buffer is empty", ErrInvalidInput)
	}

	for i, ch := range b.Channels {
		if len(ch) != b.Len() {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrInvalidInput, i, len(ch), b.Len())
		}
	}

	return nil
}

// Mono returns the channel average as a single-channel buffer. A mono
// buffer is copied.
func (b *SampleBuffer) Mono() *SampleBuffer {
	out := make([]float64, b.Len())

	if len(b.Channels) == 1 {
		copy(out, b.Channels[0])

		return NewMono(out, b.SampleRate)
	}

	scale := 1 / float64(len(b.Channels))
	for _, ch := range b.Channels {
		for i, v := range ch {
			out[i] += v * scale
		}
	}

	return NewMono(out, b.SampleRate)
}

// Clone returns a deep copy.
func (b *SampleBuffer) Clone() *SampleBuffer {
	out := &SampleBuffer{Channels: make([][]float64, len(b.Channels)), SampleRate: b.SampleRate}
	for i, ch := range b.Channels {
		out.Channels[i] = core.Clone(ch)
	}

	return out
}

func (b *SampleBuffer) isSilent() bool {
	for _, ch := range b.Channels {
		if !core.IsSilent(ch) {
			return false
		}
	}

	return true
}
