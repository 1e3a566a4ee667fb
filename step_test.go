package behaviorx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/testutil"
)

var cb Builder[testutil.CounterAction]

func inc() Behavior[testutil.CounterAction] { return cb.Action(testutil.Inc) }
func dec() Behavior[testutil.CounterAction] { return cb.Action(testutil.Dec) }

func compileCounter(tree Behavior[testutil.CounterAction]) *State[testutil.CounterAction, struct{}] {
	return NewState[testutil.CounterAction, struct{}](tree)
}

// TestCounterScenarios steps trees with update events and checks the counter
// after every step.
func TestCounterScenarios(t *testing.T) {
	tests := []struct {
		name    string
		tree    Behavior[testutil.CounterAction]
		allTime bool
		dts     []float64
		want    []int
	}{
		{"Print2", cb.Sequence(inc(), inc()), false, []float64{0.1}, []int{2}},
		{"WaitSec", cb.Sequence(cb.Wait(1), inc()), false, []float64{1, 1}, []int{0, 1}},
		{"WaitHalfSec", cb.Sequence(cb.Wait(1), inc()), false, []float64{0.5, 0.5, 0.5}, []int{0, 0, 1}},
		{"SequenceOfOne", cb.Sequence(inc()), false, []float64{1}, []int{1}},
		{"WaitTwoWaits", cb.Sequence(cb.Wait(0.5), cb.Wait(0.5), inc()), false, []float64{1, 1}, []int{0, 1}},
		{"LoopTenTimes", cb.While(cb.Wait(50), cb.Wait(0.5), inc(), cb.Wait(0.5)), false, []float64{10}, []int{10}},
		{"AllTime", cb.While(cb.WaitForever(), inc()), true, []float64{10}, []int{1}},
		{"AllTimeTwice", cb.While(cb.WaitForever(), inc(), dec()), true, []float64{10, 10}, []int{1, 0}},
		{"AllTimeSequence", cb.While(cb.WaitForever(), cb.Sequence(inc(), dec())), true, []float64{10, 10, 10, 10}, []int{1, 0, 1, 0}},
		{"WhenAllWait", cb.Sequence(cb.WhenAll(cb.Wait(0.5), cb.Wait(1)), inc()), false, []float64{0.5, 0.5, 0.5}, []int{0, 0, 1}},
		{"ZeroCostLoopStops", cb.While(cb.WaitForever(), inc()), false, []float64{10, 10}, []int{1, 2}},
		{"SaturatedWaitKeepsLooping", cb.While(cb.WaitForever(), cb.Wait(1), inc()), false, []float64{1, 1, 1, 1}, []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &testutil.Counter{AllTime: tt.allTime}
			state := compileCounter(tt.tree)
			for i, dt := range tt.dts {
				state.Step(UpdateEvent(dt), c)
				assert.Equal(t, tt.want[i], c.Value, "after step %d", i)
			}
		})
	}
}

func TestTimeConservation(t *testing.T) {
	const d1, d2, eps = 0.5, 0.25, 0.125

	status, left := compileCounter(cb.Sequence(cb.Wait(d1), cb.Wait(d2))).Step(UpdateEvent(d1+d2+eps), &testutil.Counter{})
	assert.Equal(t, Success, status)
	assert.Equal(t, eps, left)

	status, left = compileCounter(cb.Sequence(cb.Wait(d1), cb.Wait(d2))).Step(UpdateEvent(d1+d2), &testutil.Counter{})
	assert.Equal(t, Running, status)
	assert.Zero(t, left)
}

func TestCompileIsIdempotent(t *testing.T) {
	tree := cb.Sequence(
		cb.WhenAny(cb.Pressed("a"), cb.Wait(0.75)),
		cb.While(cb.Wait(2), cb.Wait(0.25), inc()),
		cb.After(cb.Wait(0.5), cb.Wait(1)),
		dec(),
	)
	events := []Event{
		UpdateEvent(0.5), ReleaseEvent("a"), UpdateEvent(0.5), PressEvent("a"),
		UpdateEvent(1), UpdateEvent(0.3), UpdateEvent(0.7), UpdateEvent(2),
	}

	run := func() ([]Status, []float64, int) {
		c := &testutil.Counter{}
		state := compileCounter(tree)
		var statuses []Status
		var lefts []float64
		for _, e := range events {
			s, l := state.Step(e, c)
			statuses = append(statuses, s)
			lefts = append(lefts, l)
		}
		return statuses, lefts, c.Value
	}

	s1, l1, v1 := run()
	s2, l2, v2 := run()
	assert.Equal(t, s1, s2)
	assert.Equal(t, l1, l2)
	assert.Equal(t, v1, v2)
}

// outcomes runs actions named after their result.
type outcomes struct {
	swap bool
	ran  []string
}

func (o *outcomes) Run(args ActionArgs[string, struct{}]) (Status, float64) {
	o.ran = append(o.ran, args.Action)
	ok := args.Action[0] == '+'
	if o.swap {
		ok = !ok
	}
	if ok {
		return Success, args.DT
	}
	return Failure, args.DT
}

func TestSequenceSelectDuality(t *testing.T) {
	var b Builder[string]
	lists := [][]string{
		{"+a", "+b", "+c"},
		{"+a", "-b", "+c"},
		{"-a", "-b", "-c"},
		{"-a", "+b"},
		{"+a"},
	}
	flip := map[Status]Status{Success: Failure, Failure: Success, Running: Running}

	for _, names := range lists {
		var leaves []Behavior[string]
		for _, n := range names {
			leaves = append(leaves, b.Action(n))
		}

		seqRunner := &outcomes{}
		seq, seqLeft := NewState[string, struct{}](b.Sequence(leaves...)).Step(UpdateEvent(1), seqRunner)
		selRunner := &outcomes{swap: true}
		sel, selLeft := NewState[string, struct{}](b.Select(leaves...)).Step(UpdateEvent(1), selRunner)

		assert.Equal(t, flip[seq], sel, "%v", names)
		assert.Equal(t, seqLeft, selLeft, "%v", names)
		assert.Equal(t, seqRunner.ran, selRunner.ran, "%v", names)
	}
}

func TestSelect(t *testing.T) {
	var b Builder[string]
	r := &outcomes{}

	status, left := NewState[string, struct{}](b.Select(b.Action("-a"), b.Action("+b"), b.Action("+c"))).Step(UpdateEvent(0.5), r)
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.5, left)
	assert.Equal(t, []string{"-a", "+b"}, r.ran)

	r = &outcomes{}
	status, _ = NewState[string, struct{}](b.Select(b.Action("-a"), b.Action("-b"))).Step(UpdateEvent(0.5), r)
	assert.Equal(t, Failure, status)
}

func TestSequenceDiscreteEventAdvancesOneChild(t *testing.T) {
	c := &testutil.Counter{}
	state := compileCounter(cb.Sequence(cb.Pressed("a"), inc(), inc()))

	status, _ := state.Step(PressEvent("a"), c)
	assert.Equal(t, Running, status)
	assert.Equal(t, 0, c.Value)

	status, _ = state.Step(PressEvent("b"), c)
	assert.Equal(t, Running, status)
	assert.Equal(t, 1, c.Value)

	status, left := state.Step(UpdateEvent(0.5), c)
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.5, left)
	assert.Equal(t, 2, c.Value)
}

func TestWaitForSignal(t *testing.T) {
	c := &testutil.Counter{}
	state := compileCounter(cb.Released("x"))

	for _, e := range []Event{UpdateEvent(5), PressEvent("x"), ReleaseEvent("y")} {
		status, left := state.Step(e, c)
		assert.Equal(t, Running, status, "%v", e)
		assert.Zero(t, left)
	}
	status, left := state.Step(ReleaseEvent("x"), c)
	assert.Equal(t, Success, status)
	assert.Zero(t, left)
}

func TestWaitIgnoresSignals(t *testing.T) {
	state := compileCounter(cb.Wait(1))
	status, _ := state.Step(PressEvent("a"), &testutil.Counter{})
	assert.Equal(t, Running, status)

	status, left := state.Step(UpdateEvent(1.5), &testutil.Counter{})
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.5, left)
}

func TestWaitForeverNeverFinishes(t *testing.T) {
	state := compileCounter(cb.WaitForever())
	for _, e := range []Event{UpdateEvent(1e9), PressEvent("a")} {
		status, left := state.Step(e, &testutil.Counter{})
		assert.Equal(t, Running, status)
		assert.Zero(t, left)
	}
}

func TestFailAndAlwaysSucceed(t *testing.T) {
	var b Builder[string]
	r := &outcomes{}
	step := func(tree Behavior[string]) (Status, float64) {
		return NewState[string, struct{}](tree).Step(UpdateEvent(0.25), r)
	}

	status, left := step(b.Fail(b.Action("+a")))
	assert.Equal(t, Failure, status)
	assert.Equal(t, 0.25, left)

	status, _ = step(b.Fail(b.Action("-a")))
	assert.Equal(t, Success, status)

	status, _ = step(b.Fail(b.Wait(1)))
	assert.Equal(t, Running, status)

	status, left = step(b.AlwaysSucceed(b.Action("-a")))
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.25, left)

	status, _ = step(b.AlwaysSucceed(b.WaitForever()))
	assert.Equal(t, Running, status)
}

func TestIf(t *testing.T) {
	c := &testutil.Counter{}
	state := compileCounter(cb.If(cb.Wait(1), cb.Sequence(cb.Wait(0.25), inc()), dec()))

	status, _ := state.Step(UpdateEvent(0.5), c)
	assert.Equal(t, Running, status)

	// The condition finishes with 0.5 left, which carries into the branch.
	status, left := state.Step(UpdateEvent(1), c)
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.25, left)
	assert.Equal(t, 1, c.Value)

	c = &testutil.Counter{}
	state = compileCounter(cb.If(cb.Fail(cb.Pressed("a")), inc(), dec()))
	status, _ = state.Step(PressEvent("a"), c)
	assert.Equal(t, Success, status)
	assert.Equal(t, -1, c.Value)
}

func TestIfDecidesOnce(t *testing.T) {
	c := &testutil.Counter{}
	state := compileCounter(cb.If(inc(), cb.Sequence(cb.Wait(1), inc()), dec()))

	state.Step(UpdateEvent(0.5), c)
	state.Step(UpdateEvent(0.5), c)
	require.Equal(t, 1, c.Value, "the condition runs only once")

	status, _ := state.Step(UpdateEvent(0.5), c)
	assert.Equal(t, Success, status)
	assert.Equal(t, 2, c.Value)
}

func TestWhile(t *testing.T) {
	var b Builder[string]

	// The condition finishing ends the loop with its own result.
	status, left := NewState[string, struct{}](b.While(b.Wait(1), b.Wait(10))).Step(UpdateEvent(1.5), &outcomes{})
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.5, left)

	status, _ = NewState[string, struct{}](b.While(b.Fail(b.Wait(1)), b.Wait(10))).Step(UpdateEvent(1.5), &outcomes{})
	assert.Equal(t, Failure, status)

	r := &outcomes{}
	status, _ = NewState[string, struct{}](b.While(b.WaitForever(), b.Wait(0.5), b.Action("-boom"))).Step(UpdateEvent(1), r)
	assert.Equal(t, Failure, status)
	assert.Equal(t, []string{"-boom"}, r.ran)
}

func TestWhenAllAndWhenAny(t *testing.T) {
	status, left := compileCounter(cb.WhenAll(cb.Wait(1), cb.Wait(0.5))).Step(UpdateEvent(1.25), &testutil.Counter{})
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.25, left, "the slowest child decides the leftover")

	status, left = compileCounter(cb.WhenAny(cb.Wait(1), cb.Wait(0.5))).Step(UpdateEvent(0.75), &testutil.Counter{})
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.25, left)

	status, _ = compileCounter(cb.WhenAll(cb.Wait(1), cb.Fail(inc()))).Step(UpdateEvent(0.5), &testutil.Counter{})
	assert.Equal(t, Failure, status)

	status, _ = compileCounter(cb.WhenAny(cb.Fail(inc()), cb.Fail(dec()))).Step(UpdateEvent(0.5), &testutil.Counter{})
	assert.Equal(t, Failure, status, "WhenAny fails when every child failed")
}

func TestWhenAnyAbandonsOthers(t *testing.T) {
	c := &testutil.Counter{}
	state := compileCounter(cb.WhenAny(inc(), dec()))

	status, _ := state.Step(UpdateEvent(1), c)
	assert.Equal(t, Success, status)
	assert.Equal(t, []testutil.CounterAction{testutil.Inc}, c.Runs)
}

func TestWhenAllWaitsForEveryChild(t *testing.T) {
	c := &testutil.Counter{}
	state := compileCounter(cb.WhenAll(inc(), cb.Sequence(cb.Pressed("go"), dec())))

	status, _ := state.Step(UpdateEvent(1), c)
	assert.Equal(t, Running, status)
	status, _ = state.Step(PressEvent("go"), c)
	assert.Equal(t, Running, status)

	// The first child already finished and is not run again.
	status, _ = state.Step(UpdateEvent(1), c)
	assert.Equal(t, Success, status)
	assert.Equal(t, []testutil.CounterAction{testutil.Inc, testutil.Dec}, c.Runs)
}

func TestEmptyParallelComposites(t *testing.T) {
	tests := []struct {
		tree Behavior[testutil.CounterAction]
		want Status
	}{
		{cb.WhenAll(), Success},
		{cb.WhenAny(), Failure},
		{cb.After(), Success},
	}
	for _, tt := range tests {
		name := tt.tree.Kind().String()

		status, left := compileCounter(tt.tree).Step(UpdateEvent(0.5), &testutil.Counter{})
		assert.Equal(t, tt.want, status, name)
		assert.Equal(t, 0.5, left, name)

		status, left = compileCounter(tt.tree).Step(PressEvent("a"), &testutil.Counter{})
		assert.Equal(t, tt.want, status, name)
		assert.Zero(t, left, name)
	}
}

func TestAfter(t *testing.T) {
	state := compileCounter(cb.After(cb.Wait(0.5), cb.Wait(1)))
	status, _ := state.Step(UpdateEvent(0.75), &testutil.Counter{})
	assert.Equal(t, Running, status)
	status, left := state.Step(UpdateEvent(0.75), &testutil.Counter{})
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.5, left)

	status, left = compileCounter(cb.After(cb.Wait(1), cb.Wait(0.5))).Step(UpdateEvent(0.75), &testutil.Counter{})
	assert.Equal(t, Failure, status, "out of order")
	assert.Zero(t, left)

	status, left = compileCounter(cb.After(cb.Wait(0.5), cb.Wait(0.5))).Step(UpdateEvent(1), &testutil.Counter{})
	assert.Equal(t, Failure, status, "simultaneous successes are not in order")
	assert.Equal(t, 0.5, left)

	status, _ = compileCounter(cb.After(cb.Wait(0.5), cb.Fail(cb.Wait(0.25)))).Step(UpdateEvent(0.375), &testutil.Counter{})
	assert.Equal(t, Failure, status)
}

func TestAfterSameStepInOrder(t *testing.T) {
	status, left := compileCounter(cb.After(cb.Wait(0.25), cb.Wait(0.5))).Step(UpdateEvent(1), &testutil.Counter{})
	assert.Equal(t, Success, status)
	assert.Equal(t, 0.5, left)
}

func TestActionMemory(t *testing.T) {
	var b Builder[string]
	countTo3 := ActionFunc[string, int](func(args ActionArgs[string, int]) (Status, float64) {
		n, _ := args.Memory.Get()
		n++
		if n == 3 {
			args.Memory.Clear()
			return Success, args.DT
		}
		args.Memory.Set(n)
		return Running, 0
	})

	state := NewState[string, int](b.Sequence(b.Action("count"), b.Action("count")))
	var got []Status
	for i := 0; i < 5; i++ {
		s, _ := state.Step(UpdateEvent(0.1), countTo3)
		got = append(got, s)
	}
	assert.Equal(t, []Status{Running, Running, Running, Running, Success}, got,
		"each leaf keeps its own memory")
}

func TestMemoryResetOnRecompile(t *testing.T) {
	var b Builder[string]
	var seen []int
	remember := ActionFunc[string, int](func(args ActionArgs[string, int]) (Status, float64) {
		n, ok := args.Memory.Get()
		if !ok {
			args.Memory.Set(1)
			return Running, 0
		}
		seen = append(seen, n)
		return Success, 0
	})

	state := NewState[string, int](b.While(b.WaitForever(), b.Action("r")))
	for i := 0; i < 4; i++ {
		state.Step(UpdateEvent(1), remember)
	}
	assert.Equal(t, []int{1, 1}, seen, "the loop recompiles its body, starting with empty memory")
}

func TestResteppingFinishedSequence(t *testing.T) {
	c := &testutil.Counter{}
	state := compileCounter(cb.Sequence(inc()))

	status, _ := state.Step(UpdateEvent(1), c)
	require.Equal(t, Success, status)
	status, _ = state.Step(UpdateEvent(1), c)
	assert.Equal(t, Success, status)
	assert.Equal(t, 2, c.Value, "the last child is stepped again")
}
