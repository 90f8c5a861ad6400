package effectchain

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/voicefx/dsp/buffer"
	"github.com/cwbudde/voicefx/dsp/core"
	"github.com/cwbudde/voicefx/dsp/effects"
)

const (
	// MaxVolume is the largest post-chain gain (200 %).
	MaxVolume = 2.0

	defaultEventBuffer = 16
)

var (
	// ErrUnknownPreset is returned by SetPreset for a name not in the catalog.
	ErrUnknownPreset = errors.New("effectchain: unknown preset")
	// ErrUnknownEffect is returned for an identifier no chain effect uses.
	ErrUnknownEffect = errors.New("effectchain: unknown effect")
	// ErrInvalidConfiguration is returned by Prepare for a bad format.
	ErrInvalidConfiguration = effects.ErrInvalidConfiguration

	// ErrStopped is returned by ProcessBuffer after Stop.
	ErrStopped = errors.New("effectchain: engine stopped")
	// ErrNotPrepared is returned by ProcessBuffer before a successful Prepare.
	ErrNotPrepared = errors.New("effectchain: engine not prepared")
	// ErrFormatMismatch is returned by ProcessBuffer for a buffer whose
	// sample rate or channel count differs from the prepared format.
	ErrFormatMismatch = errors.New("effectchain: buffer format does not match prepared format")
	// ErrOutOfRange is returned by ProcessBuffer when offset and length do
	// not address frames inside the buffer.
	ErrOutOfRange = errors.New("effectchain: frame range out of bounds")
)

// Format is a prepared sample rate and channel count.
type Format struct {
	SampleRate int
	Channels   int
}

// Engine owns the fixed effect chain, the preset catalog and the output
// volume. It is the only type a host talks to.
//
// ProcessBuffer belongs to a single audio goroutine. All other methods are
// control-path calls that may run concurrently with it; they serialize among
// themselves and hand state to the audio path through atomics only.
type Engine struct {
	log      *slog.Logger
	registry *Registry
	catalog  *Catalog

	chain []effects.Effect
	index map[string]int

	mu     sync.Mutex
	preset string
	plan   *chainPlan // last plan handed to the audio path

	format  atomic.Pointer[Format]
	volume  atomic.Uint64
	stopped atomic.Bool
	pending atomic.Pointer[chainPlan]

	events chan Event

	// scratch is the audio goroutine's sub-range view, kept on the Engine
	// so handing its address to the effects does not allocate.
	scratch buffer.Buffer
}

// chainPlan is the complete parameter and bypass configuration of the
// chain. Plans are immutable once published; the audio path commits a
// pending plan to every effect before processing a block, so no block ever
// sees a mix of two plans.
type chainPlan struct {
	staged []effects.Staged
	bypass []bool
	reset  bool
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	logger      *slog.Logger
	registry    *Registry
	catalog     *Catalog
	eventBuffer int
}

// WithLogger sets the control-path logger. The audio path never logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) { c.logger = l }
}

// WithRegistry replaces the built-in effect chain.
func WithRegistry(r *Registry) Option {
	return func(c *engineConfig) { c.registry = r }
}

// WithCatalog replaces the built-in presets.
func WithCatalog(cat *Catalog) Option {
	return func(c *engineConfig) { c.catalog = cat }
}

// WithEventBuffer sets the capacity of the Events channel. Zero disables
// events.
func WithEventBuffer(n int) Option {
	return func(c *engineConfig) { c.eventBuffer = n }
}

// New builds the chain and applies the first preset of the catalog at unit
// volume. The engine must be prepared before it processes audio.
func New(opts ...Option) (*Engine, error) {
	cfg := engineConfig{eventBuffer: defaultEventBuffer}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}
	if cfg.catalog == nil {
		cfg.catalog = DefaultCatalog()
	}
	if err := cfg.catalog.Validate(cfg.registry); err != nil {
		return nil, err
	}

	chain, err := cfg.registry.build()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:      cfg.logger,
		registry: cfg.registry,
		catalog:  cfg.catalog,
		chain:    chain,
		index:    make(map[string]int, len(chain)),
	}
	e.plan = &chainPlan{
		staged: make([]effects.Staged, len(chain)),
		bypass: make([]bool, len(chain)),
	}
	for i, fx := range chain {
		e.index[fx.Name()] = i
		e.plan.staged[i] = fx.StageParameters(nil)
	}
	if cfg.eventBuffer > 0 {
		e.events = make(chan Event, cfg.eventBuffer)
	}
	e.volume.Store(math.Float64bits(1))

	if names := cfg.catalog.Names(); len(names) > 0 {
		if err := e.SetPreset(names[0]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Prepare sizes every effect for the format and then publishes it. Until
// Prepare succeeds ProcessBuffer returns ErrNotPrepared.
func (e *Engine) Prepare(sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("effectchain: prepare %d Hz, %d channels: %w",
			sampleRate, channels, ErrInvalidConfiguration)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, fx := range e.chain {
		if err := fx.Prepare(sampleRate, channels); err != nil {
			return fmt.Errorf("effectchain: prepare %s: %w", fx.Name(), err)
		}
	}
	e.format.Store(&Format{SampleRate: sampleRate, Channels: channels})
	e.publish(e.restage(e.plan), false)

	e.log.Info("engine prepared", "sample_rate", sampleRate, "channels", channels)
	e.emit(Event{Kind: EventPrepared, SampleRate: sampleRate, Channels: channels})
	return nil
}

// Format returns the prepared format.
func (e *Engine) Format() (Format, bool) {
	f := e.format.Load()
	if f == nil {
		return Format{}, false
	}
	return *f, true
}

// SetPreset applies the named preset to every chain effect: parameters
// become the effect defaults overlaid with the preset values, and effects
// the preset does not list are bypassed. The audio path switches the whole
// chain at the start of the next processed block and clears transient
// effect state there. Applying the same preset twice yields the same state
// as applying it once.
func (e *Engine) SetPreset(name string) error {
	p, ok := e.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	plan := &chainPlan{
		staged: make([]effects.Staged, len(e.chain)),
		bypass: make([]bool, len(e.chain)),
	}
	for i, fx := range e.chain {
		s, listed := p.Settings(fx.Name())
		plan.staged[i] = fx.StageParameters(overlay(fx.DefaultParameters(), s.Params))
		plan.bypass[i] = !listed
	}
	e.publish(plan, true)
	e.preset = name

	e.log.Info("preset applied", "preset", name, "effects", len(p.Effects))
	e.emit(Event{Kind: EventPreset, Preset: name})
	return nil
}

// GetCurrentPreset returns the name of the last applied preset.
func (e *Engine) GetCurrentPreset() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preset
}

// GetAvailableEffects returns the preset names in catalog order.
func (e *Engine) GetAvailableEffects() []string {
	return e.catalog.Names()
}

// Catalog returns the engine's preset catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Chain returns the effect identifiers in processing order.
func (e *Engine) Chain() []string {
	ids := make([]string, len(e.chain))
	for i, fx := range e.chain {
		ids[i] = fx.Name()
	}
	return ids
}

// SetVolume sets the post-chain gain, clamped to [0, 2]. NaN is ignored.
func (e *Engine) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = core.Clamp(v, 0, MaxVolume)
	e.volume.Store(math.Float64bits(v))

	e.log.Debug("volume changed", "volume", v)
	e.emit(Event{Kind: EventVolume, Volume: v})
}

// Volume returns the post-chain gain.
func (e *Engine) Volume() float64 {
	return math.Float64frombits(e.volume.Load())
}

// SetEffectParameters merges values onto one effect's parameters, on top
// of whatever the current preset set. Like every control change it reaches
// the audio path at the next block boundary.
func (e *Engine) SetEffectParameters(id string, values map[string]float64) error {
	i, err := e.effect(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	plan := e.plan.clone()
	plan.staged[i] = e.chain[i].StageParameters(overlay(plan.staged[i].Parameters(), values))
	e.publish(plan, false)
	e.log.Debug("effect parameters changed", "effect", id, "values", values)
	e.emit(Event{Kind: EventEffect, Effect: id})
	return nil
}

// SetEffectBypass toggles one effect.
func (e *Engine) SetEffectBypass(id string, bypass bool) error {
	i, err := e.effect(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	plan := e.plan.clone()
	plan.bypass[i] = bypass
	e.publish(plan, false)
	e.log.Debug("effect bypass changed", "effect", id, "bypass", bypass)
	e.emit(Event{Kind: EventEffect, Effect: id})
	return nil
}

func (e *Engine) effect(id string) (int, error) {
	i, ok := e.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, id)
	}
	return i, nil
}

func (p *chainPlan) clone() *chainPlan {
	return &chainPlan{
		staged: slices.Clone(p.staged),
		bypass: slices.Clone(p.bypass),
	}
}

// restage rebuilds every snapshot of p, so rate-dependent state follows
// the prepared format.
func (e *Engine) restage(p *chainPlan) *chainPlan {
	next := p.clone()
	for i, fx := range e.chain {
		next.staged[i] = fx.StageParameters(p.staged[i].Parameters())
	}
	return next
}

// publish hands p to the audio path, replacing any plan it has not picked
// up yet. A reset requested by the replaced plan carries over. Callers hold
// e.mu.
func (e *Engine) publish(p *chainPlan, reset bool) {
	for {
		prev := e.pending.Load()
		p.reset = reset || (prev != nil && prev.reset)
		if e.pending.CompareAndSwap(prev, p) {
			break
		}
	}
	e.plan = p
}

// commit applies a pending plan to the chain. It runs on the audio path.
func (e *Engine) commit() {
	p := e.pending.Swap(nil)
	if p == nil {
		return
	}
	for i, fx := range e.chain {
		fx.Commit(p.staged[i])
		fx.SetBypass(p.bypass[i])
	}
	if p.reset {
		for _, fx := range e.chain {
			fx.Reset()
		}
	}
}

// Stop makes every later ProcessBuffer call fail with ErrStopped.
func (e *Engine) Stop() {
	if e.stopped.Swap(true) {
		return
	}
	e.log.Info("engine stopped")
	e.emit(Event{Kind: EventStopped})
}

// Stopped reports whether Stop was called.
func (e *Engine) Stopped() bool {
	return e.stopped.Load()
}

// Events returns the control-path event stream, or nil when disabled.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// State returns a deep snapshot of preset, volume and per-effect settings.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Preset:  e.preset,
		Volume:  e.Volume(),
		Effects: make([]Params, len(e.chain)),
	}
	for i, fx := range e.chain {
		st.Effects[i] = Params{ID: fx.Name(), Bypassed: e.plan.bypass[i], Num: e.plan.staged[i].Parameters()}
	}
	return st
}

// ProcessBuffer runs frames [offset, offset+length) of buf through the
// chain in place, then applies the volume and clips to [-1, 1].
//
// On error buf is left untouched. It never allocates, locks or logs.
func (e *Engine) ProcessBuffer(buf *buffer.Buffer, offset, length int) error {
	if e.stopped.Load() {
		return ErrStopped
	}
	f := e.format.Load()
	if f == nil {
		return ErrNotPrepared
	}
	if buf == nil || buf.SampleRate() != f.SampleRate || buf.Channels() != f.Channels {
		return ErrFormatMismatch
	}
	view, ok := buf.View(offset, length)
	if !ok {
		return ErrOutOfRange
	}

	e.commit()

	e.scratch = view
	for _, fx := range e.chain {
		fx.Process(&e.scratch)
	}

	gain := float32(e.Volume())
	samples := e.scratch.Samples()
	for i, x := range samples {
		samples[i] = core.ClampSample(x*gain, 1)
	}
	e.scratch = buffer.Buffer{}
	return nil
}
