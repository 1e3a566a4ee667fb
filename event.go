package behaviorx

import "fmt"

// Event is what a State is stepped with.
//
// The engine only needs to ask three things of an event: whether it carries a
// time delta, whether it carries a discrete signal, and how to derive a new
// update event with a smaller delta. The latter is used to hand the leftover
// of one child to the next within a single step.
type Event interface {
	// Update returns the time delta in seconds for update events.
	Update() (dt float64, ok bool)
	// Signal returns the discrete signal for input events.
	Signal() (Signal, bool)
	// WithUpdate returns an update event carrying dt. It must not modify the
	// receiver.
	WithUpdate(dt float64) Event
}

// SignalKind classifies discrete signals. Press and Release are predefined;
// applications may declare further kinds.
type SignalKind uint8

const (
	Press SignalKind = iota + 1
	Release
)

func (k SignalKind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("signal(%d)", uint8(k))
	}
}

// Signal identifies a discrete input, e.g. a button press.
type Signal struct {
	Kind   SignalKind
	Button string
}

func (s Signal) String() string {
	return s.Kind.String() + ":" + s.Button
}

// Input is the stock Event implementation. The zero value is an update event
// with no elapsed time.
type Input struct {
	signal Signal
	dt     float64
	input  bool
}

var _ Event = Input{}

// UpdateEvent returns an update event carrying dt seconds.
func UpdateEvent(dt float64) Input {
	return Input{dt: dt}
}

// PressEvent returns a press signal for button.
func PressEvent(button string) Input {
	return SignalEvent(Signal{Kind: Press, Button: button})
}

// ReleaseEvent returns a release signal for button.
func ReleaseEvent(button string) Input {
	return SignalEvent(Signal{Kind: Release, Button: button})
}

// SignalEvent returns an input event carrying sig.
func SignalEvent(sig Signal) Input {
	return Input{signal: sig, input: true}
}

func (in Input) Update() (float64, bool) {
	if in.input {
		return 0, false
	}
	return in.dt, true
}

func (in Input) Signal() (Signal, bool) {
	if !in.input {
		return Signal{}, false
	}
	return in.signal, true
}

func (in Input) WithUpdate(dt float64) Event {
	return UpdateEvent(dt)
}

func (in Input) String() string {
	if in.input {
		return in.signal.String()
	}
	return fmt.Sprintf("update:%g", in.dt)
}
