package effectchain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// CatalogVersion is the preset file format this package reads.
const CatalogVersion = 1

//go:embed presets.json
var builtinPresets []byte

// ErrInvalidCatalog is returned for malformed or inconsistent preset files.
var ErrInvalidCatalog = errors.New("effectchain: invalid preset catalog")

// EffectSettings is one effect's entry in a preset.
type EffectSettings struct {
	ID     string             `json:"id"`
	Params map[string]float64 `json:"params,omitempty"`
}

// Preset is a named set of effects with their parameter values. Effects not
// listed are bypassed when the preset is applied.
type Preset struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Effects     []EffectSettings `json:"effects"`
}

// Settings returns the entry for effect id.
func (p Preset) Settings(id string) (EffectSettings, bool) {
	for _, s := range p.Effects {
		if s.ID == id {
			return s, true
		}
	}
	return EffectSettings{}, false
}

func (p Preset) clone() Preset {
	out := p
	out.Effects = make([]EffectSettings, len(p.Effects))
	for i, s := range p.Effects {
		out.Effects[i] = EffectSettings{ID: s.ID, Params: maps.Clone(s.Params)}
	}
	return out
}

type catalogFile struct {
	Version int      `json:"version"`
	Presets []Preset `json:"presets"`
}

// Catalog is an immutable, ordered list of presets.
type Catalog struct {
	version int
	presets []Preset
	byName  map[string]int
}

// DefaultCatalog returns the built-in presets.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(builtinPresets), DefaultRegistry())
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog parses a preset file and checks it against the effect
// identifiers of registry. A nil registry means DefaultRegistry.
func LoadCatalog(r io.Reader, registry *Registry) (*Catalog, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if file.Version != CatalogVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrInvalidCatalog, file.Version, CatalogVersion)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("%w: no presets", ErrInvalidCatalog)
	}

	c := &Catalog{
		version: file.Version,
		presets: file.Presets,
		byName:  make(map[string]int, len(file.Presets)),
	}
	for i, p := range file.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: preset %d has no name", ErrInvalidCatalog, i)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate preset %q", ErrInvalidCatalog, p.Name)
		}
		if err := validatePreset(p, registry); err != nil {
			return nil, err
		}
		c.byName[p.Name] = i
	}
	return c, nil
}

func validatePreset(p Preset, registry *Registry) error {
	seen := make(map[string]struct{}, len(p.Effects))
	for _, s := range p.Effects {
		factory := registry.Lookup(s.ID)
		if factory == nil {
			return fmt.Errorf("%w: preset %q: %w: %s", ErrInvalidCatalog, p.Name, ErrUnknownEffect, s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: preset %q lists %s twice", ErrInvalidCatalog, p.Name, s.ID)
		}
		seen[s.ID] = struct{}{}

		fx := factory()
		if fx == nil {
			return fmt.Errorf("%w: preset %q: factory %q returned nil", ErrInvalidCatalog, p.Name, s.ID)
		}
		known := fx.DefaultParameters()
		for _, key := range slices.Sorted(maps.Keys(s.Params)) {
			if _, ok := known[key]; !ok {
				return fmt.Errorf("%w: preset %q: %s has no parameter %q", ErrInvalidCatalog, p.Name, s.ID, key)
			}
		}
	}
	return nil
}

// Version returns the catalog format version.
func (c *Catalog) Version() int { return c.version }

// Names returns the preset names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.presets))
	for i, p := range c.presets {
		names[i] = p.Name
	}
	return names
}

// Lookup returns a copy of the named preset.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Preset{}, false
	}
	return c.presets[i].clone(), true
}

// Presets returns copies of all presets in catalog order.
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	for i, p := range c.presets {
		out[i] = p.clone()
	}
	return out
}

// Validate checks the catalog against another registry's identifiers and
// parameter names.
func (c *Catalog) Validate(registry *Registry) error {
	for _, p := range c.presets {
		if err := validatePreset(p, registry); err != nil {
			return err
		}
	}
	return nil
}
