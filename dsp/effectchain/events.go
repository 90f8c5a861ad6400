package effectchain

// EventKind identifies a control-path change.
type EventKind int

const (
	EventPreset EventKind = iota + 1
	EventVolume
	EventEffect
	EventPrepared
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventPreset:
		return "preset"
	case EventVolume:
		return "volume"
	case EventEffect:
		return "effect"
	case EventPrepared:
		return "prepared"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event reports a change made through the Engine's control API. Only the
// fields relevant to Kind are set.
type Event struct {
	Kind       EventKind
	Preset     string
	Effect     string
	Volume     float64
	SampleRate int
	Channels   int
}

// emit delivers ev without blocking. Events are dropped when nobody drains
// the channel.
func (e *Engine) emit(ev Event) {
	if e.events == nil {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}
