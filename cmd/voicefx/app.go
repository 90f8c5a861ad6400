package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/voicefx/dsp/effectchain"
	"github.com/cwbudde/voicefx/internal/config"
	"github.com/cwbudde/voicefx/internal/pipeline"
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	log     *slog.Logger
	catalog *effectchain.Catalog
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "voicefx",
		Usage:     "real-time voice effects on raw PCM",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		// main reports errors and picks the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "env-file", Usage: "load variables from `FILE` (default .env)"},
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: "preset to apply"},
			&cli.Float64Flag{Name: "volume", Usage: "output volume in [0, 2]"},
			&cli.IntFlag{Name: "sample-rate", Usage: "sample rate in Hz"},
			&cli.IntFlag{Name: "channels", Usage: "interleaved channel count"},
			&cli.IntFlag{Name: "block", Usage: "frames per processing block"},
			&cli.StringFlag{Name: "presets-file", Usage: "preset catalog JSON `FILE`"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.presetsCommand(),
			a.renderCommand(),
			a.analyzeCommand(),
			a.monitorCommand(),
		},
	}
}

func (a *app) before(c *cli.Context) error {
	if err := config.LoadEnv(c.StringSlice("env-file")...); err != nil {
		return err
	}

	cfg, err := config.Load(c.Context)
	if err != nil {
		return err
	}
	if c.IsSet("preset") {
		cfg.Preset = c.String("preset")
	}
	if c.IsSet("volume") {
		cfg.Volume = c.Float64("volume")
	}
	if c.IsSet("sample-rate") {
		cfg.SampleRate = c.Int("sample-rate")
	}
	if c.IsSet("channels") {
		cfg.Channels = c.Int("channels")
	}
	if c.IsSet("block") {
		cfg.BlockFrames = c.Int("block")
	}
	if c.IsSet("presets-file") {
		cfg.PresetsFile = c.String("presets-file")
	}
	if c.IsSet("log-level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(c.String("log-level"))); err != nil {
			return fmt.Errorf("log-level: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = cfg.NewLogger(a.stderr)

	a.catalog, err = loadCatalog(cfg.PresetsFile)
	return err
}

func loadCatalog(path string) (*effectchain.Catalog, error) {
	if path == "" {
		return effectchain.DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()

	return effectchain.LoadCatalog(f, nil)
}

// newEngine builds and prepares an engine with the configured preset and
// volume. channels overrides the configured channel count when > 0.
func (a *app) newEngine(channels int) (*effectchain.Engine, error) {
	if channels <= 0 {
		channels = a.cfg.Channels
	}

	e, err := effectchain.New(effectchain.WithLogger(a.log), effectchain.WithCatalog(a.catalog))
	if err != nil {
		return nil, err
	}
	if err := e.Prepare(a.cfg.SampleRate, channels); err != nil {
		return nil, err
	}
	if a.cfg.Preset != "" {
		if err := e.SetPreset(a.cfg.Preset); err != nil {
			return nil, err
		}
	}
	e.SetVolume(a.cfg.Volume)

	return e, nil
}

// pump runs a pipeline until input ends or the process is interrupted.
// An interrupt stops the engine so the pipeline ends after its current block.
func (a *app) pump(ctx context.Context, e *effectchain.Engine, src io.Reader, dst io.Writer) error {
	p, err := pipeline.New(e, src, dst,
		pipeline.WithLogger(a.log),
		pipeline.WithBlockFrames(a.cfg.BlockFrames))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return p.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		e.Stop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
