package extensibility

import (
	"time"

	"github.com/comalice/behaviorx"
)

// ChannelEventSource is an EventSource implementation backed by a Go channel.
// Provides a simple way to feed external events into the realtime runtime.
type ChannelEventSource struct {
	ch chan behaviorx.Event
}

// Events returns the receive-only channel for events.
func (s *ChannelEventSource) Events() <-chan behaviorx.Event {
	return s.ch
}

// NewChannelEventSource creates a new ChannelEventSource with the given channel.
// The channel should be buffered if backpressure handling is needed.
func NewChannelEventSource(ch chan behaviorx.Event) *ChannelEventSource {
	return &ChannelEventSource{ch: ch}
}

// TimerEventSource emits the same event periodically using time.Ticker,
// e.g. a heartbeat button press.
type TimerEventSource struct {
	ch     chan behaviorx.Event
	event  behaviorx.Event
	ticker *time.Ticker
	stop   chan struct{}
}

// NewTimerEventSource creates a TimerEventSource that emits event every d.
func NewTimerEventSource(event behaviorx.Event, d time.Duration) *TimerEventSource {
	t := &TimerEventSource{
		ch:     make(chan behaviorx.Event, 10),
		event:  event,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerEventSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- t.event:
			default:
				// drop if full
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the event channel.
func (t *TimerEventSource) Events() <-chan behaviorx.Event {
	return t.ch
}

// Stop stops the ticker and closes the channel.
func (t *TimerEventSource) Stop() {
	close(t.stop)
}
