package primitives

import (
	"errors"
	"testing"

	"github.com/comalice/behaviorx"
)

func TestEventConfig(t *testing.T) {
	tests := []struct {
		event behaviorx.Input
		want  EventConfig
		str   string
	}{
		{behaviorx.UpdateEvent(0.5), EventConfig{Type: "update", DT: 0.5}, "update:0.5"},
		{behaviorx.PressEvent("a"), EventConfig{Type: "press", Button: "a"}, "press:a"},
		{behaviorx.ReleaseEvent("b"), EventConfig{Type: "release", Button: "b"}, "release:b"},
	}
	for _, tt := range tests {
		got := NewEventConfig(tt.event)
		if got != tt.want {
			t.Errorf("NewEventConfig(%v) = %+v, want %+v", tt.event, got, tt.want)
		}
		if got.String() != tt.str {
			t.Errorf("String() = %q, want %q", got.String(), tt.str)
		}
		back, err := got.Event()
		if err != nil || back != tt.event {
			t.Errorf("Event() = %v, %v, want %v", back, err, tt.event)
		}
	}

	if _, err := (EventConfig{Type: "tap"}).Event(); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}
