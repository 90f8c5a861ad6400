// Package pipeline pumps s16le PCM from a reader, through an effect engine,
// to a writer in fixed-size blocks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cwbudde/voicefx/dsp/buffer"
	"github.com/cwbudde/voicefx/dsp/effectchain"
)

// DefaultBlockFrames is 10 ms at 48 kHz.
const DefaultBlockFrames = 480

// ErrNotPrepared is returned by New for an engine without a format.
var ErrNotPrepared = errors.New("pipeline: engine not prepared")

// blocks recycles block buffers across runs.
var blocks = buffer.NewPool()

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Records carry the pipeline's session id.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithBlockFrames sets the number of frames read per block.
func WithBlockFrames(n int) Option {
	return func(p *Pipeline) { p.blockFrames = n }
}

// Pipeline moves audio between a capture reader and a playback writer.
// Run takes its block buffer from a shared pool once and does not allocate
// per block.
type Pipeline struct {
	engine *effectchain.Engine
	src    io.Reader
	dst    io.Writer
	log    *slog.Logger

	id          string
	format      effectchain.Format
	blockFrames int
	frameBytes  int

	raw []byte

	frames atomic.Int64
}

// New sizes a pipeline for the engine's prepared format.
func New(engine *effectchain.Engine, src io.Reader, dst io.Writer, opts ...Option) (*Pipeline, error) {
	format, ok := engine.Format()
	if !ok {
		return nil, ErrNotPrepared
	}

	p := &Pipeline{
		engine:      engine,
		src:         src,
		dst:         dst,
		log:         slog.Default(),
		id:          uuid.NewString(),
		blockFrames: DefaultBlockFrames,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.blockFrames <= 0 {
		return nil, fmt.Errorf("pipeline: block frames must be > 0: %d", p.blockFrames)
	}

	p.format = format
	p.frameBytes = 2 * format.Channels
	p.raw = make([]byte, p.blockFrames*p.frameBytes)
	p.log = p.log.With("session", p.id)

	return p, nil
}

// ID returns the session id attached to every log record.
func (p *Pipeline) ID() string { return p.id }

// Frames returns the number of frames written so far.
func (p *Pipeline) Frames() int64 { return p.frames.Load() }

// Run processes blocks until the reader is exhausted, ctx is done or the
// engine is stopped. EOF and engine stop are normal ends and return nil.
// A trailing partial block is processed; a trailing partial frame is
// dropped. ctx is checked between blocks, so a Read that blocks forever
// keeps Run blocked too.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	buf := blocks.Get(p.format.SampleRate, p.format.Channels, p.blockFrames)
	defer blocks.Put(buf)

	p.log.Info("pipeline started",
		"sampleRate", p.format.SampleRate,
		"channels", p.format.Channels,
		"blockFrames", p.blockFrames)
	defer func() {
		if err != nil {
			p.log.Error("pipeline failed", "frames", p.Frames(), "error", err)
			return
		}
		p.log.Info("pipeline finished", "frames", p.Frames())
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := io.ReadFull(p.src, p.raw)
		whole := n / p.frameBytes

		if whole > 0 {
			stop, err := p.block(buf, whole)
			if err != nil || stop {
				return err
			}
		}
		if n%p.frameBytes != 0 {
			p.log.Warn("dropping partial frame", "bytes", n%p.frameBytes)
		}

		switch {
		case readErr == nil:
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			return nil
		default:
			return fmt.Errorf("pipeline: read: %w", readErr)
		}
	}
}

func (p *Pipeline) block(buf *buffer.Buffer, frames int) (stop bool, err error) {
	buf.DecodePCM(p.raw[:frames*p.frameBytes])

	if err := p.engine.ProcessBuffer(buf, 0, frames); err != nil {
		if errors.Is(err, effectchain.ErrStopped) {
			p.log.Info("engine stopped")
			return true, nil
		}
		return false, fmt.Errorf("pipeline: process: %w", err)
	}

	buf.EncodePCM(p.raw)
	if _, err := p.dst.Write(p.raw[:frames*p.frameBytes]); err != nil {
		return false, fmt.Errorf("pipeline: write: %w", err)
	}
	p.frames.Add(int64(frames))

	return false, nil
}
