package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/cwbudde/voicefx/dsp/buffer"
	"github.com/cwbudde/voicefx/dsp/effects"
	"github.com/cwbudde/voicefx/measure/spectrum"
)

func (a *app) presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list the presets of the active catalog",
		Action: func(c *cli.Context) error {
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEFFECTS\tDESCRIPTION")

			for _, p := range a.catalog.Presets() {
				ids := make([]string, len(p.Effects))
				for i, s := range p.Effects {
					ids[i] = s.ID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, strings.Join(ids, ","), p.Description)
			}

			return w.Flush()
		},
	}
}

func (a *app) renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "process PCM from stdin to stdout",
		Action: func(c *cli.Context) error {
			if f, ok := a.stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return cli.Exit("refusing to write raw PCM to a terminal; redirect stdout", 1)
			}

			e, err := a.newEngine(0)
			if err != nil {
				return err
			}

			return a.pump(c.Context, e, a.stdin, a.stdout)
		},
	}
}

func (a *app) analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "measure the preset's gain at a range of sine frequencies",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "from", Value: 100, Usage: "lowest frequency in Hz"},
			&cli.Float64Flag{Name: "to", Value: 8000, Usage: "highest frequency in Hz"},
			&cli.IntFlag{Name: "points", Value: 12, Usage: "number of log-spaced frequencies"},
			&cli.Float64Flag{Name: "level", Value: -12, Usage: "test tone level in dBFS"},
		},
		Action: func(c *cli.Context) error {
			from, to, points := c.Float64("from"), c.Float64("to"), c.Int("points")
			nyquist := float64(a.cfg.SampleRate) / 2
			if from <= 0 || to <= from || to >= nyquist || points < 2 {
				return cli.Exit(fmt.Sprintf("need 0 < from < to < %g and points >= 2", nyquist), 1)
			}

			e, err := a.newEngine(1)
			if err != nil {
				return err
			}

			// The designed EQ curve of the preset, printed next to the
			// measured gain of the whole chain.
			eq := effects.NewEqualizer()
			if err := eq.Prepare(a.cfg.SampleRate, 1); err != nil {
				return err
			}
			if p, ok := a.catalog.Lookup(e.GetCurrentPreset()); ok {
				if s, ok := p.Settings("equalizer"); ok {
					eq.SetParameters(s.Params)
				}
			}

			rate := a.cfg.SampleRate
			amp := math.Pow(10, c.Float64("level")/20)
			in := make([]float32, rate/2)
			buf := buffer.New(rate, 1, len(in))

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "FREQ HZ\tGAIN DB\tEQ DB\t\n")

			for i := range points {
				freq := from * math.Pow(to/from, float64(i)/float64(points-1))
				for n := range in {
					in[n] = float32(amp * math.Sin(2*math.Pi*freq*float64(n)/float64(rate)))
				}
				buf.CopyFrom(in)

				// Re-applying the preset clears the previous tone's tails.
				if err := e.SetPreset(e.GetCurrentPreset()); err != nil {
					return err
				}
				for off := 0; off < len(in); off += a.cfg.BlockFrames {
					n := min(a.cfg.BlockFrames, len(in)-off)
					if err := e.ProcessBuffer(buf, off, n); err != nil {
						return err
					}
				}

				gain, err := spectrum.GainDB(in, buf.Samples(), freq, float64(rate))
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%.0f\t%+.2f\t%+.2f\t\n", freq, gain, eq.ResponseDB(freq))
			}

			return w.Flush()
		},
	}
}
