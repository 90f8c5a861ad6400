// Package config reads voicefx runtime settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds the settings shared by every voicefx command.
type Config struct {
	SampleRate  int        `env:"VOICEFX_SAMPLE_RATE, default=48000"`
	Channels    int        `env:"VOICEFX_CHANNELS, default=1"`
	BlockFrames int        `env:"VOICEFX_BLOCK_FRAMES, default=480"`
	Preset      string     `env:"VOICEFX_PRESET"`
	Volume      float64    `env:"VOICEFX_VOLUME, default=1"`
	PresetsFile string     `env:"VOICEFX_PRESETS_FILE"`
	LogLevel    slog.Level `env:"VOICEFX_LOG_LEVEL, default=info"`
}

// LoadEnv loads variables from the given .env files, or ./.env when none are
// named. Variables already set in the process environment win. A missing
// file is not an error.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load env file: %w", err)
	}
	return nil
}

// Load fills a Config from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom fills a Config from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting outside its usable range.
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("config: VOICEFX_SAMPLE_RATE must be > 0: %d", c.SampleRate)
	case c.Channels <= 0:
		return fmt.Errorf("config: VOICEFX_CHANNELS must be > 0: %d", c.Channels)
	case c.BlockFrames <= 0:
		return fmt.Errorf("config: VOICEFX_BLOCK_FRAMES must be > 0: %d", c.BlockFrames)
	case math.IsNaN(c.Volume) || c.Volume < 0 || c.Volume > 2:
		return fmt.Errorf("config: VOICEFX_VOLUME must be in [0, 2]: %g", c.Volume)
	}
	return nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
