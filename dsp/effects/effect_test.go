package effects

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate int
		channels   int
		wantErr    bool
	}{
		{"mono 48k", 48000, 1, false},
		{"stereo 44k1", 44100, 2, false},
		{"zero rate", 0, 2, true},
		{"negative rate", -48000, 2, true},
		{"zero channels", 48000, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateFormat("x", tt.sampleRate, tt.channels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestBaseBypass(t *testing.T) {
	t.Parallel()

	b := NewBase("fx")
	if b.Name() != "fx" || b.Bypassed() {
		t.Fatalf("fresh base: name=%q bypassed=%v", b.Name(), b.Bypassed())
	}
	b.SetBypass(true)
	if !b.Bypassed() {
		t.Fatal("SetBypass(true) not observed")
	}
}

func TestSnapshotUpdate(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(EchoParams{Feedback: 0.1, Mix: 0.2})
	before := s.Load()
	got := s.Update(func(p EchoParams) EchoParams {
		p.Mix = 0.9
		return p
	})
	if got != (EchoParams{Feedback: 0.1, Mix: 0.9}) {
		t.Fatalf("Update returned %+v", got)
	}
	if *before != (EchoParams{Feedback: 0.1, Mix: 0.2}) {
		t.Fatalf("published value mutated: %+v", *before)
	}
	if *s.Load() != got {
		t.Fatalf("Load = %+v, want %+v", *s.Load(), got)
	}
}

func TestParamSetApply(t *testing.T) {
	t.Parallel()

	cur := EchoParamSet.Defaults()
	tests := []struct {
		name   string
		values map[string]float64
		want   EchoParams
	}{
		{"in range", map[string]float64{"feedback": 0.5, "mix": 0.7}, EchoParams{Feedback: 0.5, Mix: 0.7}},
		{"clamped high", map[string]float64{"feedback": 3, "mix": 2}, EchoParams{Feedback: 0.85, Mix: 1}},
		{"clamped low", map[string]float64{"feedback": -1, "mix": -1}, EchoParams{Feedback: 0, Mix: 0}},
		{"unknown ignored", map[string]float64{"wobble": 1}, cur},
		{"non-finite ignored", map[string]float64{"feedback": math.NaN(), "mix": math.Inf(1)}, cur},
		{"partial merge", map[string]float64{"mix": 0.5}, EchoParams{Feedback: cur.Feedback, Mix: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, EchoParamSet.Apply(cur, tt.values)); diff != "" {
				t.Fatalf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParamSetMapAndLookup(t *testing.T) {
	t.Parallel()

	want := map[string]float64{"feedback": 0.35, "mix": 0.3}
	if diff := cmp.Diff(want, EchoParamSet.Map(EchoParamSet.Defaults())); diff != "" {
		t.Fatalf("Map mismatch (-want +got):\n%s", diff)
	}
	p, ok := EchoParamSet.Lookup("feedback")
	if !ok || p.Max != 0.85 {
		t.Fatalf("Lookup(feedback) = %+v, %v", p, ok)
	}
	if _, ok := EchoParamSet.Lookup("nope"); ok {
		t.Fatal("Lookup found unknown key")
	}
}

func TestEffectsImplementInterface(t *testing.T) {
	t.Parallel()

	for _, fx := range []Effect{NewEcho(), NewEqualizer(), NewRingModulator()} {
		if diff := cmp.Diff(fx.DefaultParameters(), fx.Parameters()); diff != "" {
			t.Errorf("%s: fresh parameters differ from defaults:\n%s", fx.Name(), diff)
		}
	}
}

// Concurrent writers publish whole snapshots; readers must only ever see one
// of the written pairs.
func TestSetParametersNoTornSnapshots(t *testing.T) {
	t.Parallel()

	e := NewEcho()
	if err := e.Prepare(8000, 2); err != nil {
		t.Fatal(err)
	}
	a := map[string]float64{"feedback": 0.1, "mix": 0.2}
	b := map[string]float64{"feedback": 0.5, "mix": 0.6}
	e.SetParameters(a)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				e.SetParameters(b)
			} else {
				e.SetParameters(a)
			}
		}
	}()

	buf := newStereo(256)
	for range 2000 {
		e.Process(buf)
		p := *e.params.Load()
		if p != (EchoParams{Feedback: 0.1, Mix: 0.2}) && p != (EchoParams{Feedback: 0.5, Mix: 0.6}) {
			close(stop)
			wg.Wait()
			t.Fatalf("torn snapshot %+v", p)
		}
	}
	close(stop)
	wg.Wait()
}

func TestStageThenCommit(t *testing.T) {
	t.Parallel()

	e := NewEcho()
	staged := e.StageParameters(map[string]float64{"mix": 2, "bogus": 1})

	want := map[string]float64{"feedback": 0.35, "mix": 1}
	if diff := cmp.Diff(want, staged.Parameters()); diff != "" {
		t.Fatalf("staged mismatch (-want +got):\n%s", diff)
	}
	if got := e.Parameters()["mix"]; got != 0.3 {
		t.Fatalf("staging published mix = %v", got)
	}

	e.Commit(staged)
	if diff := cmp.Diff(want, e.Parameters()); diff != "" {
		t.Fatalf("committed mismatch (-want +got):\n%s", diff)
	}

	e.Commit(NewRingModulator().StageParameters(nil))
	if diff := cmp.Diff(want, e.Parameters()); diff != "" {
		t.Fatalf("foreign snapshot applied (-want +got):\n%s", diff)
	}
}

func TestEqualizerStageUsesPreparedRate(t *testing.T) {
	t.Parallel()

	eq := NewEqualizer()
	if err := eq.Prepare(48000, 1); err != nil {
		t.Fatal(err)
	}
	values := map[string]float64{"midGainDb": 6}
	eq.Commit(eq.StageParameters(values))

	direct := NewEqualizer()
	if err := direct.Prepare(48000, 1); err != nil {
		t.Fatal(err)
	}
	direct.SetParameters(values)

	if diff := cmp.Diff(direct.Coefficients(), eq.Coefficients()); diff != "" {
		t.Fatalf("coefficients mismatch (-set +committed):\n%s", diff)
	}
}
