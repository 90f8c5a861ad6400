package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(nil))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		SampleRate:  48000,
		Channels:    1,
		BlockFrames: 480,
		Volume:      1,
		LogLevel:    slog.LevelInfo,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"VOICEFX_SAMPLE_RATE":  "44100",
		"VOICEFX_CHANNELS":     "2",
		"VOICEFX_BLOCK_FRAMES": "256",
		"VOICEFX_PRESET":       "robot",
		"VOICEFX_VOLUME":       "1.5",
		"VOICEFX_PRESETS_FILE": "/etc/voicefx/presets.json",
		"VOICEFX_LOG_LEVEL":    "debug",
	}))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		SampleRate:  44100,
		Channels:    2,
		BlockFrames: 256,
		Preset:      "robot",
		Volume:      1.5,
		PresetsFile: "/etc/voicefx/presets.json",
		LogLevel:    slog.LevelDebug,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"zero sample rate", map[string]string{"VOICEFX_SAMPLE_RATE": "0"}, "VOICEFX_SAMPLE_RATE"},
		{"negative channels", map[string]string{"VOICEFX_CHANNELS": "-1"}, "VOICEFX_CHANNELS"},
		{"zero block", map[string]string{"VOICEFX_BLOCK_FRAMES": "0"}, "VOICEFX_BLOCK_FRAMES"},
		{"volume too high", map[string]string{"VOICEFX_VOLUME": "2.5"}, "VOICEFX_VOLUME"},
		{"not a number", map[string]string{"VOICEFX_SAMPLE_RATE": "fast"}, "config:"},
		{"bad level", map[string]string{"VOICEFX_LOG_LEVEL": "loud"}, "config:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	t.Parallel()

	if err := LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("VOICEFX_TEST_PRESET=karaoke\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOICEFX_TEST_PRESET", "")
	os.Unsetenv("VOICEFX_TEST_PRESET")

	if err := LoadEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("VOICEFX_TEST_PRESET"); got != "karaoke" {
		t.Fatalf("VOICEFX_TEST_PRESET = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg := &Config{LogLevel: slog.LevelWarn}
	log := cfg.NewLogger(&out)
	log.Info("hidden")
	log.Warn("shown", "preset", "robot")

	if strings.Contains(out.String(), "hidden") {
		t.Fatal("info record passed a warn-level logger")
	}
	if !strings.Contains(out.String(), "preset=robot") {
		t.Fatalf("output = %q", out.String())
	}
}
