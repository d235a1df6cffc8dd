package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. VOICE_PITCH.
const Prefix = "VOICE"

// Config holds the voice changer defaults. CLI flags override every field.
type Config struct {
	// Effect defaults
	Pitch float64 `envconfig:"PITCH" default:"-3"`
	Speed float64 `envconfig:"SPEED" default:"0.9"`
	Echo  bool    `envconfig:"ECHO" default:"true"`
	Deep  bool    `envconfig:"DEEP" default:"true"`

	// Output settings
	Format string `envconfig:"FORMAT" default:"mp3"`
	Mono   bool   `envconfig:"MONO" default:"true"`

	// Logging settings
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from an optional .env file and VOICE_*
// environment variables.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error loading .env file", "error", err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(c.Format)
	if c.Format != "mp3" && c.Format != "wav" {
		return fmt.Errorf("invalid %s_FORMAT %q: want mp3 or wav", Prefix, c.Format)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid %s_LOG_FORMAT %q: want text or json", Prefix, c.LogFormat)
	}

	if c.Speed <= 0 {
		return fmt.Errorf("invalid %s_SPEED %g: must be > 0", Prefix, c.Speed)
	}

	return nil
}
