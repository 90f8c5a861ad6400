package effects

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/voicefx/dsp/buffer"
)

// ErrInvalidConfiguration is returned by Prepare for a non-positive sample
// rate or channel count.
var ErrInvalidConfiguration = errors.New("effects: invalid configuration")

// Effect is a stateful in-place processor for interleaved float32 audio.
//
// Process, and Reset when used to clear state between blocks, belong to the
// audio path: they never allocate, lock or block. Everything else is called
// from the control path and may run concurrently with Process.
type Effect interface {
	Name() string
	Bypassed() bool
	SetBypass(bypass bool)

	// Prepare (re)sizes internal state for the given format. It may
	// allocate. The new state is published atomically.
	Prepare(sampleRate, channels int) error

	// Reset clears transient state (delay memory, filter history,
	// envelopes) without reallocating.
	Reset()

	// Process transforms buf in place. It is a no-op when bypassed, when
	// Prepare has not succeeded yet, or when buf's channel count differs
	// from the prepared one.
	Process(buf *buffer.Buffer)

	// SetParameters merges values onto the current parameter snapshot.
	// Unknown keys and non-finite values are ignored, the rest clamped.
	SetParameters(values map[string]float64)

	// StageParameters builds the snapshot for the defaults overlaid with
	// values, with the same filtering as SetParameters, without publishing
	// it. It may allocate.
	StageParameters(values map[string]float64) Staged

	// Commit publishes a snapshot built by this effect's StageParameters.
	// It is a plain atomic store, safe on the audio path. Other Staged
	// values are ignored.
	Commit(s Staged)

	Parameters() map[string]float64
	DefaultParameters() map[string]float64
}

// ValidateFormat checks a Prepare request.
func ValidateFormat(name string, sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("%s: sample rate %d, channels %d: %w",
			name, sampleRate, channels, ErrInvalidConfiguration)
	}
	return nil
}

// Base carries the name and bypass flag every effect shares.
type Base struct {
	name   string
	bypass atomic.Bool
}

// NewBase returns a Base with bypass off.
func NewBase(name string) *Base {
	return &Base{name: name}
}

// Name returns the effect identifier.
func (b *Base) Name() string { return b.name }

// Bypassed reports whether Process is currently a no-op.
func (b *Base) Bypassed() bool { return b.bypass.Load() }

// SetBypass toggles bypass. While bypassed, state is frozen rather than
// reset, so re-enabling resumes from where processing stopped.
func (b *Base) SetBypass(bypass bool) { b.bypass.Store(bypass) }

// Snapshot hands immutable values from the control path to the audio path.
// Writers serialize on a mutex; readers do a single atomic load and never
// block.
type Snapshot[T any] struct {
	mu  sync.Mutex
	cur atomic.Pointer[T]
}

// NewSnapshot returns a Snapshot holding initial.
func NewSnapshot[T any](initial T) *Snapshot[T] {
	s := &Snapshot[T]{}
	s.cur.Store(&initial)
	return s
}

// Load returns the current value. The pointee must not be modified.
func (s *Snapshot[T]) Load() *T {
	return s.cur.Load()
}

// Commit publishes v as is. It does not take the writer lock, so it must
// not race with Update.
func (s *Snapshot[T]) Commit(v *T) {
	s.cur.Store(v)
}

// Update publishes fn applied to a copy of the current value.
func (s *Snapshot[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(*s.cur.Load())
	s.cur.Store(&next)
	return next
}

// Staged is a parameter snapshot built on the control path and published
// later with Effect.Commit.
type Staged interface {
	// Parameters returns the values the snapshot holds.
	Parameters() map[string]float64
}

// StagedValue is the Staged form of an effect's parameter snapshot.
type StagedValue[T any] struct {
	value  *T
	params map[string]float64
}

// NewStaged wraps v with its string-keyed view.
func NewStaged[T any](v T, params map[string]float64) *StagedValue[T] {
	return &StagedValue[T]{value: &v, params: params}
}

// Value returns the snapshot to publish. The pointee must not be modified.
func (s *StagedValue[T]) Value() *T { return s.value }

// Parameters returns a copy of the string-keyed view.
func (s *StagedValue[T]) Parameters() map[string]float64 {
	return maps.Clone(s.params)
}
