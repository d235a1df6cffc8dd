// Command voicechanger applies the voice pipeline to an audio file.
//
// Usage:
//
//	voicechanger process [flags] <input>
//	voicechanger info <input>
//
// Effect defaults come from VOICE_* environment variables (or a .env file)
// and every flag overrides them.
//
// Examples:
//
//	voicechanger process memo.wav
//	voicechanger process --pitch=5 --speed=1.2 --no-deep -o chipmunk.mp3 memo.mp3
//	voicechanger process --format=wav --no-echo memo.wav
//	voicechanger info modified_voice.mp3
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-voice/internal/config"
	"github.com/cwbudde/algo-voice/internal/logger"
)

// CLI defines the voicechanger command structure.
type CLI struct {
	Process ProcessCmd `cmd:"" default:"withargs" help:"Transform a voice clip"`
	Info    InfoCmd    `cmd:"" help:"Print basic properties of an audio file"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicechanger: %v\n", err)
		os.Exit(2)
	}

	log := logger.SetupLogger(cfg)

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("voicechanger"),
		kong.Description("Pitch, tempo, echo and deep-voice effects for recorded speech."),
		kong.UsageOnError(),
		defaultVars(cfg),
		kong.Bind(log),
	)

	err = ctx.Run()
	if err != nil {
		slog.Debug("command failed", "command", ctx.Command(), "error", err)
	}

	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

// defaultVars exposes the loaded configuration as flag defaults.
func defaultVars(cfg *config.Config) kong.Vars {
	return kong.Vars{
		"pitch":  strconv.FormatFloat(cfg.Pitch, 'g', -1, 64),
		"speed":  strconv.FormatFloat(cfg.Speed, 'g', -1, 64),
		"echo":   strconv.FormatBool(cfg.Echo),
		"deep":   strconv.FormatBool(cfg.Deep),
		"format": cfg.Format,
		"mono":   strconv.FormatBool(cfg.Mono),
	}
}
