package main

import (
	"github.com/urfave/cli/v2"
)

func (a *app) monitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "process PCM from stdin and play it on the default output device",
		Action: func(c *cli.Context) error {
			e, err := a.newEngine(0)
			if err != nil {
				return err
			}

			out, err := openSpeaker(a.cfg.SampleRate, a.cfg.Channels, a.cfg.BlockFrames)
			if err != nil {
				return err
			}

			err = a.pump(c.Context, e, a.stdin, out)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}
}
