package buffer

import "sync"

// Pool provides sync.Pool-based Buffer reuse to reduce GC pressure when a
// capture layer needs a fresh Buffer per audio callback.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Buffer{}
			},
		},
	}
}

// Get returns a zeroed Buffer with the requested shape.
// Callers must return it via Put when done.
func (p *Pool) Get(sampleRate, channels, frames int) *Buffer {
	if channels < 0 {
		channels = 0
	}

	if frames < 0 {
		frames = 0
	}

	b := p.pool.Get().(*Buffer)
	b.reshape(sampleRate, channels, frames)
	b.Clear()

	return b
}

// Put returns a Buffer to the pool for reuse.
// The caller must not use the buffer after calling Put.
func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}

	p.pool.Put(b)
}
