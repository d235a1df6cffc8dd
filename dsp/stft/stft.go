package stft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	// DefaultFrameSize is the FFT length used by the voice effects.
	DefaultFrameSize = 2048
	// DefaultHop is DefaultFrameSize/4.
	DefaultHop = DefaultFrameSize / 4

	minFrameSize = 64
	normFloor    = 1e-12
)

// ErrInvalidFrame reports an unusable frame size or hop.
var ErrInvalidFrame = errors.New("stft: invalid frame configuration")

// Option configures a Processor.
type Option func(*config)

type config struct {
	frameSize  int
	hop        int
	windowType window.Type
}

// WithFrameSize sets the FFT frame size. It must be a power of two >= 64.
func WithFrameSize(n int) Option {
	return func(c *config) {
		c.frameSize = n
	}
}

// WithHop sets the hop size in samples. It must be in [1, frameSize).
func WithHop(n int) Option {
	return func(c *config) {
		c.hop = n
	}
}

// WithWindow selects the analysis/synthesis window.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.windowType = t
	}
}

// Spectrogram is a sequence of half spectra produced by Analyze.
type Spectrogram struct {
	FrameSize int
	Hop       int
	// Frames[t][k] is bin k of frame t, k in [0, FrameSize/2].
	Frames [][]complex128
}

// Bins returns the number of bins per frame.
func (s *Spectrogram) Bins() int { return s.FrameSize/2 + 1 }

// NewSpectrogram allocates a zeroed spectrogram with the given frame count.
func NewSpectrogram(frameSize, hop, frames int) *Spectrogram {
	s := &Spectrogram{FrameSize: frameSize, Hop: hop, Frames: make([][]complex128, frames)}
	for t := range s.Frames {
		s.Frames[t] = make([]complex128, s.Bins())
	}

	return s
}

// Magnitudes writes |Frames[t][k]| into dst, which must hold Bins() values.
func (s *Spectrogram) Magnitudes(dst []float64, t int) {
	frame := s.Frames[t]
	re := make([]float64, len(frame))
	im := make([]float64, len(frame))

	for k, v := range frame {
		re[k] = real(v)
		im[k] = imag(v)
	}

	vecmath.Magnitude(dst[:len(frame)], re, im)
}

// Processor holds the FFT plan, window and scratch buffers for one frame
// configuration. It is not safe for concurrent use.
type Processor struct {
	frameSize int
	hop       int

	plan   *algofft.Plan[complex128]
	window []float64

	scratch  []complex128
	frame    []float64
	windowed []float64
}

// New creates a Processor. Without options it uses a 2048-sample periodic
// Hann window and a 512-sample hop.
func New(opts ...Option) (*Processor, error) {
	cfg := config{
		frameSize:  DefaultFrameSize,
		hop:        DefaultHop,
		windowType: window.TypeHann,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.frameSize < minFrameSize || !isPowerOf2(cfg.frameSize) {
		return nil, fmt.Errorf("%w: frame size must be power-of-two and >= %d: %d",
			ErrInvalidFrame, minFrameSize, cfg.frameSize)
	}

	if cfg.hop <= 0 || cfg.hop >= cfg.frameSize {
		return nil, fmt.Errorf("%w: hop must be in [1, %d): %d", ErrInvalidFrame, cfg.frameSize, cfg.hop)
	}

	plan, err := algofft.NewPlan64(cfg.frameSize)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	return &Processor{
		frameSize: cfg.frameSize,
		hop:       cfg.hop,
		plan:      plan,
		window:    window.Generate(cfg.windowType, cfg.frameSize, window.WithPeriodic()),
		scratch:   make([]complex128, cfg.frameSize),
		frame:     make([]float64, cfg.frameSize),
		windowed:  make([]float64, cfg.frameSize),
	}, nil
}

// FrameSize returns the FFT frame size.
func (p *Processor) FrameSize() int { return p.frameSize }

// Hop returns the hop size in samples.
func (p *Processor) Hop() int { return p.hop }

// FrameCount returns the number of centred frames Analyze produces for n samples.
func (p *Processor) FrameCount(n int) int {
	if n <= 0 {
		return 0
	}

	return 1 + n/p.hop
}

// Analyze computes the centred STFT of x.
func (p *Processor) Analyze(x []float64) (*Spectrogram, error) {
	frames := p.FrameCount(len(x))
	spec := NewSpectrogram(p.frameSize, p.hop, frames)
	half := p.frameSize / 2

	for t := range frames {
		start := t*p.hop - half

		for i := range p.frameSize {
			idx := start + i
			if idx < 0 || idx >= len(x) {
				p.frame[i] = 0
				continue
			}

			p.frame[i] = x[idx]
		}

		vecmath.MulBlock(p.windowed, p.frame, p.window)

		for i, v := range p.windowed {
			p.scratch[i] = complex(v, 0)
		}

		if err := p.plan.Forward(p.scratch, p.scratch); err != nil {
			return nil, fmt.Errorf("stft: forward FFT failed: %w", err)
		}

		copy(spec.Frames[t], p.scratch[:half+1])
	}

	return spec, nil
}

// Synthesize reconstructs a signal of exactly length samples from spec by
// weighted overlap-add. The spectrogram must match the processor's frame
// size and hop.
func (p *Processor) Synthesize(spec *Spectrogram, length int) ([]float64, error) {
	if spec == nil || spec.FrameSize != p.frameSize || spec.Hop != p.hop {
		return nil, fmt.Errorf("%w: spectrogram does not match processor", ErrInvalidFrame)
	}

	if length <= 0 {
		return []float64{}, nil
	}

	frames := len(spec.Frames)
	if frames == 0 {
		return make([]float64, length), nil
	}

	half := p.frameSize / 2
	outLen := (frames-1)*p.hop + p.frameSize
	out := make([]float64, outLen)
	norm := make([]float64, outLen)

	for t, bins := range spec.Frames {
		p.scratch[0] = complex(real(bins[0]), 0)
		p.scratch[half] = complex(real(bins[half]), 0)

		for k := 1; k < half; k++ {
			v := bins[k]
			p.scratch[k] = v
			p.scratch[p.frameSize-k] = complex(real(v), -imag(v))
		}

		if err := p.plan.Inverse(p.scratch, p.scratch); err != nil {
			return nil, fmt.Errorf("stft: inverse FFT failed: %w", err)
		}

		pos := t * p.hop
		for i, w := range p.window {
			out[pos+i] += real(p.scratch[i]) * w
			norm[pos+i] += w * w
		}
	}

	for i := range out {
		if norm[i] > normFloor {
			out[i] /= norm[i]
		}
	}

	result := make([]float64, length)
	if half < len(out) {
		copy(result, out[half:])
	}

	return result, nil
}

func isPowerOf2(v int) bool {
	return v > 0 && (v&(v-1)) == 0
}
