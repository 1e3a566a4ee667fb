package behaviorx

// ActionArgs is passed to the ActionRunner for every step of an action leaf.
type ActionArgs[A, M any] struct {
	// Event is the event the leaf is stepped with. Inside a sequence this may
	// be an update synthesized from a sibling's leftover.
	Event Event
	// DT is the time delta of Event, or 0 for discrete events.
	DT float64
	// Action is the payload of the leaf.
	Action A
	// Memory belongs to this leaf alone and survives between steps until the
	// leaf is compiled again.
	Memory *Memory[M]
}

// ActionRunner executes action leaves. It returns the status of the action
// and the part of args.DT it did not consume.
type ActionRunner[A, M any] interface {
	Run(args ActionArgs[A, M]) (Status, float64)
}

// ActionFunc adapts a function to ActionRunner.
type ActionFunc[A, M any] func(args ActionArgs[A, M]) (Status, float64)

func (f ActionFunc[A, M]) Run(args ActionArgs[A, M]) (Status, float64) {
	return f(args)
}

// Memory is an optional value owned by a single action leaf.
type Memory[M any] struct {
	value M
	ok    bool
}

// Get returns the stored value and whether one is set.
func (m *Memory[M]) Get() (M, bool) {
	return m.value, m.ok
}

// Set stores v.
func (m *Memory[M]) Set(v M) {
	m.value, m.ok = v, true
}

// Clear removes the stored value.
func (m *Memory[M]) Clear() {
	var zero M
	m.value, m.ok = zero, false
}

// State tracks the progress of a Behavior. It mirrors the shape of the
// behavior it was compiled from; composite states own their child states.
//
// A State is not safe for concurrent use.
type State[A, M any] struct {
	kind Kind

	// action
	action A
	memory Memory[M]

	// waitForSignal
	signal Signal

	// wait
	total   float64
	elapsed float64

	// if: branches and the condition result, Running until decided
	success *Behavior[A]
	failure *Behavior[A]
	status  Status

	// select, sequence, while: children and index of the active one
	seq   []Behavior[A]
	index int

	// while: the cursor at index 0 has not been stepped yet
	fresh bool

	// fail, alwaysSucceed, if, select, sequence, while
	cursor *State[A, M]

	// while
	cond *State[A, M]

	// whenAll, whenAny: nil once a child finished; after: every child
	cursors []*State[A, M]
}

// NewState compiles b into a fresh State. Ordered composites compile their
// first child, parallel composites compile all of theirs.
//
// NewState panics if a Select, Sequence or While node it compiles has no
// children, or if b has an unknown kind. Use Behavior.Validate to check a
// whole tree beforehand.
func NewState[A, M any](b Behavior[A]) *State[A, M] {
	s := compile[A, M](b)
	return &s
}

func compile[A, M any](b Behavior[A]) State[A, M] {
	s := State[A, M]{kind: b.kind}
	switch b.kind {
	case KindAction:
		s.action = b.action
	case KindWaitForSignal:
		s.signal = b.signal
	case KindWait:
		s.total = b.duration
	case KindWaitForever:
	case KindFail, KindAlwaysSucceed:
		s.cursor = NewState[A, M](*b.cond)
	case KindIf:
		s.success, s.failure = b.success, b.failure
		s.status = Running
		s.cursor = NewState[A, M](*b.cond)
	case KindSelect, KindSequence:
		mustHaveChildren(b)
		s.seq = b.children
		s.cursor = NewState[A, M](b.children[0])
	case KindWhile:
		mustHaveChildren(b)
		s.seq = b.children
		s.cond = NewState[A, M](*b.cond)
		s.cursor = NewState[A, M](b.children[0])
		s.fresh = true
	case KindWhenAll, KindWhenAny, KindAfter:
		s.cursors = make([]*State[A, M], len(b.children))
		for i, c := range b.children {
			s.cursors[i] = NewState[A, M](c)
		}
	default:
		panic("behaviorx: cannot compile " + b.kind.String())
	}
	return s
}

func mustHaveChildren[A any](b Behavior[A]) {
	if len(b.children) == 0 {
		panic("behaviorx: " + b.kind.String() + " requires at least one child")
	}
}

// Kind returns the kind of behavior s was compiled from.
func (s *State[A, M]) Kind() Kind {
	return s.kind
}

// advance moves an ordered composite to child i, compiling it into the
// existing cursor slot.
func (s *State[A, M]) advance(i int) {
	s.index = i
	*s.cursor = compile[A, M](s.seq[i])
}
