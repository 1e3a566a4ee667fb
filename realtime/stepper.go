package realtime

import (
	"context"

	"github.com/comalice/behaviorx"
)

// Stepper is anything the runtime can feed events to. The returned float is
// the unconsumed part of an update's time delta.
type Stepper interface {
	Step(ctx context.Context, e behaviorx.Event) (behaviorx.Status, float64)
}

// StateStepper adapts a compiled State and its runner to Stepper.
type StateStepper[A, M any] struct {
	State  *behaviorx.State[A, M]
	Runner behaviorx.ActionRunner[A, M]
}

func (s StateStepper[A, M]) Step(_ context.Context, e behaviorx.Event) (behaviorx.Status, float64) {
	return s.State.Step(e, s.Runner)
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func(ctx context.Context, e behaviorx.Event) (behaviorx.Status, float64)

func (f StepperFunc) Step(ctx context.Context, e behaviorx.Event) (behaviorx.Status, float64) {
	return f(ctx, e)
}

// EventSource supplies discrete events from outside the runtime, such as an
// input device. The channel is drained until it is closed or the runtime
// stops.
type EventSource interface {
	Events() <-chan behaviorx.Event
}
