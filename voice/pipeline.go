package voice

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-voice/dsp/effects"
	"github.com/cwbudde/algo-voice/dsp/effects/pitch"
	"github.com/cwbudde/algo-voice/dsp/resample"
	"github.com/cwbudde/algo-voice/dsp/stretch"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-stage debug output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithQuality selects the resampling quality used by pitch and deep voice.
func WithQuality(q resample.Quality) Option {
	return func(p *Pipeline) { p.quality = q }
}

// WithFrame sets the phase-vocoder frame and hop sizes.
func WithFrame(frameSize, hop int) Option {
	return func(p *Pipeline) {
		p.frameSize = frameSize
		p.hop = hop
	}
}

// Pipeline applies an EffectConfig to sample buffers. It holds no per-clip
// state and may be reused; concurrent Process calls are safe.
type Pipeline struct {
	logger    *slog.Logger
	quality   resample.Quality
	frameSize int
	hop       int
}

// NewPipeline creates a pipeline with balanced resampling and the default
// 2048/512 vocoder frame.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		quality:   resample.QualityBalanced,
		frameSize: stretch.DefaultFrameSize,
		hop:       stretch.DefaultHop,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process runs the default pipeline.
func Process(buf *SampleBuffer, cfg EffectConfig) (*SampleBuffer, error) {
	return NewPipeline().Process(buf, cfg)
}

type stage struct {
	name string
	run  func([]float64) ([]float64, error)
}

// Process returns a new buffer with cfg applied to every channel of buf.
// The sample rate is unchanged. The first failing stage aborts processing
// and no buffer is returned.
func (p *Pipeline) Process(buf *SampleBuffer, cfg EffectConfig) (*SampleBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	stages, err := p.stages(float64(buf.SampleRate), cfg)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("processing clip",
		"channels", buf.NumChannels(),
		"samples", buf.Len(),
		"sampleRate", buf.SampleRate,
		"config", cfg.String())

	out := &SampleBuffer{Channels: make([][]float64, buf.NumChannels()), SampleRate: buf.SampleRate}

	// Every stage maps digital silence to digital silence.
	if buf.isSilent() {
		if err := stretch.ValidateRate(cfg.SpeedFactor); err != nil {
			return nil, fmt.Errorf("stretch stage: %w", err)
		}

		n := stretch.OutputLen(buf.Len(), cfg.SpeedFactor)
		for ch := range out.Channels {
			out.Channels[ch] = make([]float64, n)
		}

		p.logger.Debug("silent clip, stages skipped", "out", n)

		return out, nil
	}

	for ch, samples := range buf.Channels {
		for _, st := range stages {
			start := time.Now()

			next, err := st.run(samples)
			if err != nil {
				return nil, fmt.Errorf("%s stage (channel %d): %w", st.name, ch, err)
			}

			p.logger.Debug("stage done",
				"stage", st.name,
				"channel", ch,
				"in", len(samples),
				"out", len(next),
				"elapsed", time.Since(start))

			samples = next
		}

		out.Channels[ch] = samples
	}

	return out, nil
}

// stages builds the fixed stage list for one clip.
func (p *Pipeline) stages(sampleRate float64, cfg EffectConfig) ([]stage, error) {
	shifter, err := pitch.NewShifter(sampleRate,
		pitch.WithQuality(p.quality),
		pitch.WithFrameSize(p.frameSize),
		pitch.WithHop(p.hop))
	if err != nil {
		return nil, err
	}

	if err := shifter.SetSemitones(cfg.PitchSemitones); err != nil {
		return nil, err
	}

	stretcher, err := stretch.New(stretch.WithFrameSize(p.frameSize), stretch.WithHop(p.hop))
	if err != nil {
		return nil, err
	}

	speed := cfg.SpeedFactor

	stages := []stage{
		{name: "pitch", run: shifter.Process},
		{name: "stretch", run: func(x []float64) ([]float64, error) { return stretcher.Process(x, speed) }},
	}

	if cfg.Echo {
		echo, err := effects.NewEcho(sampleRate)
		if err != nil {
			return nil, err
		}

		stages = append(stages, stage{
			name: "echo",
			run:  func(x []float64) ([]float64, error) { return echo.Process(x), nil },
		})
	}

	if cfg.Deep {
		deep, err := effects.NewDeepVoice(sampleRate)
		if err != nil {
			return nil, err
		}

		deep.SetQuality(p.quality)

		stages = append(stages, stage{name: "deep", run: deep.Process})
	}

	return stages, nil
}
