package effectchain

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	if c.Version() != CatalogVersion {
		t.Fatalf("version = %d", c.Version())
	}
	if len(c.Names()) != 10 {
		t.Fatalf("presets = %d, want 10", len(c.Names()))
	}
	robot, ok := c.Lookup("robot")
	if !ok {
		t.Fatal("robot preset missing")
	}
	s, ok := robot.Settings("ringmod")
	if !ok || s.Params["carrierHz"] != 60 {
		t.Fatalf("robot ringmod = %+v, %v", s, ok)
	}
	if _, ok := robot.Settings("nope"); ok {
		t.Fatal("Settings found unknown effect")
	}
	for _, p := range c.Presets() {
		if p.Description == "" {
			t.Errorf("preset %q has no description", p.Name)
		}
	}
}

func TestCatalogLookupReturnsCopy(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	p, _ := c.Lookup("robot")
	p.Effects[0].Params["thresholdDb"] = 0
	p.Effects = nil

	again, _ := c.Lookup("robot")
	if again.Effects[0].Params["thresholdDb"] != -45 {
		t.Fatal("catalog preset mutated through Lookup")
	}
}

func TestLoadCatalogRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"version":1,`},
		{"wrong version", `{"version":2,"presets":[{"name":"a","effects":[]}]}`},
		{"no presets", `{"version":1,"presets":[]}`},
		{"empty name", `{"version":1,"presets":[{"name":"","effects":[]}]}`},
		{"duplicate name", `{"version":1,"presets":[{"name":"a","effects":[]},{"name":"a","effects":[]}]}`},
		{"unknown effect", `{"version":1,"presets":[{"name":"a","effects":[{"id":"reverb"}]}]}`},
		{"duplicate effect", `{"version":1,"presets":[{"name":"a","effects":[{"id":"echo"},{"id":"echo"}]}]}`},
		{"unknown field", `{"version":1,"presets":[{"name":"a","effects":[],"colour":"red"}]}`},
		{"unknown parameter", `{"version":1,"presets":[{"name":"a","effects":[{"id":"gate","params":{"thresholdDB":-40}}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadCatalog(strings.NewReader(tt.json), nil)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("err = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestLoadCatalogUnknownEffectWrapsSentinel(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(strings.NewReader(
		`{"version":1,"presets":[{"name":"a","effects":[{"id":"reverb"}]}]}`), nil)
	if !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("err = %v, want ErrUnknownEffect", err)
	}
}

func TestLoadCatalogNamesUnknownParameter(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog(strings.NewReader(
		`{"version":1,"presets":[{"name":"quiet","effects":[{"id":"echo","params":{"mix":0.2,"delayMs":120}}]}]}`), nil)
	if !errors.Is(err, ErrInvalidCatalog) || !strings.Contains(err.Error(), `"delayMs"`) {
		t.Fatalf("err = %v, want ErrInvalidCatalog naming delayMs", err)
	}

	if _, err := LoadCatalog(strings.NewReader(
		`{"version":1,"presets":[{"name":"quiet","effects":[{"id":"echo","params":{"mix":0.2}}]}]}`), nil); err != nil {
		t.Fatalf("valid parameter rejected: %v", err)
	}
}
