package testutil

import "github.com/comalice/behaviorx"

// CounterAction is the action payload understood by Counter.
type CounterAction int

const (
	Inc CounterAction = iota
	Dec
)

func (a CounterAction) String() string {
	if a == Dec {
		return "dec"
	}
	return "inc"
}

// Counter is an ActionRunner that increments or decrements Value. Every
// action succeeds at once. With AllTime set, actions claim the whole time
// delta they are given; otherwise they hand it back untouched.
type Counter struct {
	Value   int
	AllTime bool
	// Runs counts every action executed, in order.
	Runs []CounterAction
}

var _ behaviorx.ActionRunner[CounterAction, struct{}] = (*Counter)(nil)

func (c *Counter) Run(args behaviorx.ActionArgs[CounterAction, struct{}]) (behaviorx.Status, float64) {
	switch args.Action {
	case Inc:
		c.Value++
	case Dec:
		c.Value--
	}
	c.Runs = append(c.Runs, args.Action)
	if c.AllTime {
		return behaviorx.Success, 0
	}
	return behaviorx.Success, args.DT
}
