package testutil

import (
	"context"
	"time"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/realtime"
)

// Driver provides a common interface for stepping a tree directly and through
// the tick-based runtime. This allows running the same scenarios on both.
type Driver interface {
	// Send queues a discrete event for the next tick.
	Send(e behaviorx.Event) error
	// Tick delivers queued events, then one update of the driver's time step.
	Tick(ctx context.Context) (behaviorx.Status, float64)
}

// DirectDriver steps a State on the calling goroutine.
type DirectDriver[A, M any] struct {
	state   *behaviorx.State[A, M]
	runner  behaviorx.ActionRunner[A, M]
	dt      float64
	pending []behaviorx.Event

	status   behaviorx.Status
	leftover float64
}

// NewDirectDriver creates a driver that feeds state updates of dt seconds.
func NewDirectDriver[A, M any](state *behaviorx.State[A, M], runner behaviorx.ActionRunner[A, M], dt float64) *DirectDriver[A, M] {
	return &DirectDriver[A, M]{state: state, runner: runner, dt: dt}
}

func (d *DirectDriver[A, M]) Send(e behaviorx.Event) error {
	d.pending = append(d.pending, e)
	return nil
}

func (d *DirectDriver[A, M]) Tick(context.Context) (behaviorx.Status, float64) {
	if d.status.Terminal() {
		return d.status, d.leftover
	}
	events := append(d.pending, behaviorx.UpdateEvent(d.dt))
	d.pending = nil
	for _, e := range events {
		d.status, d.leftover = d.state.Step(e, d.runner)
		if d.status.Terminal() {
			return d.status, d.leftover
		}
	}
	return d.status, 0
}

// TickBasedDriver wraps the tick-based runtime and advances it one tick at a
// time without starting its clock.
type TickBasedDriver struct {
	rt *realtime.RealtimeRuntime
}

// NewTickBasedDriver creates a driver around a runtime with the given tick rate.
func NewTickBasedDriver(stepper realtime.Stepper, tickRate time.Duration) *TickBasedDriver {
	return &TickBasedDriver{
		rt: realtime.NewRuntime(stepper, realtime.Config{TickRate: tickRate}),
	}
}

func (d *TickBasedDriver) Send(e behaviorx.Event) error {
	return d.rt.SendEvent(e)
}

func (d *TickBasedDriver) Tick(ctx context.Context) (behaviorx.Status, float64) {
	return d.rt.Advance(ctx)
}

// Runtime exposes the wrapped runtime.
func (d *TickBasedDriver) Runtime() *realtime.RealtimeRuntime {
	return d.rt
}
