package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"

	"github.com/cwbudde/algo-voice/internal/codec"
	"github.com/cwbudde/algo-voice/measure/loudness"
	"github.com/cwbudde/algo-voice/voice"
)

const defaultOutputBase = "modified_voice"

// errProcessing is what the user sees when the pipeline or codecs fail.
var errProcessing = errors.New("error processing audio, please try again with a different file or settings")

// ProcessCmd decodes a clip, runs the voice pipeline and encodes the result.
type ProcessCmd struct {
	Input   string  `arg:"" type:"existingfile" help:"Input audio file (wav or mp3)"`
	Output  string  `short:"o" help:"Output path (default: modified_voice.<format>)"`
	Pitch   float64 `default:"${pitch}" help:"Pitch shift in semitones (suggested -12..12)"`
	Speed   float64 `default:"${speed}" help:"Speed factor, below 1 slows down (suggested 0.5..2)"`
	Echo    bool    `default:"${echo}" negatable:"" help:"Add a 150 ms echo"`
	Deep    bool    `default:"${deep}" negatable:"" help:"Apply the deep voice effect"`
	Format  string  `default:"${format}" enum:"mp3,wav" help:"Output format (mp3 or wav)"`
	Mono    bool    `default:"${mono}" negatable:"" help:"Downmix to mono before processing"`
	Profile string  `default:"none" enum:"none,cpu,mem" help:"Write a CPU or memory profile"`
}

// Run executes the process command.
func (c *ProcessCmd) Run(log *slog.Logger) error {
	switch c.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	format, err := codec.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	output := c.Output
	if output == "" {
		output = defaultOutputBase + "." + string(format)
	}

	cfg := voice.EffectConfig{
		PitchSemitones: c.Pitch,
		SpeedFactor:    c.Speed,
		Echo:           c.Echo,
		Deep:           c.Deep,
	}

	log = log.With("run", uuid.NewString())

	if err := c.run(log, output, format, cfg); err != nil {
		log.Error("processing failed", "input", c.Input, "error", err)

		return fmt.Errorf("%w: %w", errProcessing, err)
	}

	return nil
}

func (c *ProcessCmd) run(log *slog.Logger, output string, format codec.Format, cfg voice.EffectConfig) error {
	start := time.Now()

	in, inFormat, err := codec.DecodeFile(c.Input)
	if err != nil {
		return err
	}

	log.Info("decoded input",
		"path", c.Input,
		"format", inFormat,
		"channels", in.NumChannels(),
		"sampleRate", in.SampleRate,
		"duration", in.Duration(),
		"lufs", integratedLoudness(in),
	)

	if c.Mono && in.NumChannels() > 1 {
		in = in.Mono()
	}

	out, err := voice.NewPipeline(voice.WithLogger(log)).Process(in, cfg)
	if err != nil {
		return err
	}

	if err := writeAtomic(output, out, format); err != nil {
		return err
	}

	log.Info("wrote output",
		"path", output,
		"format", format,
		"config", cfg.String(),
		"duration", out.Duration(),
		"lufs", integratedLoudness(out),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// integratedLoudness formats the clip loudness for logs.
func integratedLoudness(buf *voice.SampleBuffer) string {
	lv, err := loudness.Measure(buf.Channels, float64(buf.SampleRate))
	if err != nil {
		return "n/a"
	}

	return strconv.FormatFloat(lv.Integrated, 'f', 1, 64)
}

// writeAtomic encodes into a temporary file beside path and renames it into
// place. On failure the temporary file is removed.
func writeAtomic(path string, buf *voice.SampleBuffer, format codec.Format) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", voice.ErrEncodeFailure, err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = codec.Encode(tmp, buf, format); err != nil {
		_ = tmp.Close()

		return err
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", voice.ErrEncodeFailure, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", voice.ErrEncodeFailure, err)
	}

	return nil
}
