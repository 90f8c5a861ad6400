//go:build !headless

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// speaker feeds PCM written to it into an oto player through a pipe.
type speaker struct {
	pw     *io.PipeWriter
	player *oto.Player
}

func openSpeaker(sampleRate, channels, blockFrames int) (io.WriteCloser, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(blockFrames) * time.Second / time.Duration(sampleRate) * 4,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	<-ready

	pr, pw := io.Pipe()
	s := &speaker{pw: pw, player: ctx.NewPlayer(pr)}
	s.player.Play()

	return s, nil
}

func (s *speaker) Write(p []byte) (int, error) {
	return s.pw.Write(p)
}

// Close ends the stream and waits for queued audio to finish playing.
func (s *speaker) Close() error {
	if err := s.pw.Close(); err != nil {
		return err
	}
	for s.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return s.player.Close()
}
