package primitives

import (
	"errors"
	"fmt"

	"github.com/comalice/behaviorx"
)

// ErrInvalidEvent is returned when an EventConfig does not describe an event.
var ErrInvalidEvent = errors.New("invalid event")

// EventConfig is the serializable form of an event, used in step records and
// scripted event sequences.
type EventConfig struct {
	Type   string  `json:"type" yaml:"type"` // update, press or release
	DT     float64 `json:"dt,omitempty" yaml:"dt,omitempty"`
	Button string  `json:"button,omitempty" yaml:"button,omitempty"`
}

// NewEventConfig describes e. Signals of custom kinds keep the kind's string
// form as Type.
func NewEventConfig(e behaviorx.Event) EventConfig {
	if dt, ok := e.Update(); ok {
		return EventConfig{Type: "update", DT: dt}
	}
	sig, _ := e.Signal()
	return EventConfig{Type: sig.Kind.String(), Button: sig.Button}
}

// Event converts c back into an engine event.
func (c EventConfig) Event() (behaviorx.Input, error) {
	if c.Type == "update" {
		return behaviorx.UpdateEvent(c.DT), nil
	}
	kind, err := parseSignalKind(c.Type)
	if err != nil {
		return behaviorx.Input{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return behaviorx.SignalEvent(behaviorx.Signal{Kind: kind, Button: c.Button}), nil
}

func (c EventConfig) String() string {
	if c.Type == "update" {
		return fmt.Sprintf("update:%g", c.DT)
	}
	return c.Type + ":" + c.Button
}
