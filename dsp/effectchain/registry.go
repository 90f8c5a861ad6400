package effectchain

import (
	"errors"
	"fmt"

	"github.com/cwbudde/voicefx/dsp/effects"
)

// Factory builds one effect instance.
type Factory func() effects.Effect

// Registry maps effect identifiers to factories and remembers the order in
// which they were registered. That order is the processing order of every
// chain built from the registry.
type Registry struct {
	factories map[string]Factory
	order     []string
}

var errDuplicateEffect = errors.New("duplicate effect type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register appends a factory for the given effect identifier.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" {
		return errors.New("empty effect type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, id)
	}

	r.factories[id] = factory
	r.order = append(r.order, id)

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for id, or nil.
func (r *Registry) Lookup(id string) Factory {
	return r.factories[id]
}

// IDs returns the registered identifiers in chain order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// build instantiates one effect per registered factory, in order. Each
// instance must report the identifier it was registered under.
func (r *Registry) build() ([]effects.Effect, error) {
	chain := make([]effects.Effect, 0, len(r.order))
	for _, id := range r.order {
		fx := r.factories[id]()
		if fx == nil {
			return nil, fmt.Errorf("effectchain: factory %q returned nil", id)
		}
		if fx.Name() != id {
			return nil, fmt.Errorf("effectchain: factory %q built effect named %q", id, fx.Name())
		}
		chain = append(chain, fx)
	}
	return chain, nil
}
