package behaviorx

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant of a Behavior and of the State compiled from it.
type Kind uint8

const (
	KindAction Kind = iota + 1
	KindWaitForSignal
	KindWait
	KindWaitForever
	KindFail
	KindAlwaysSucceed
	KindIf
	KindSelect
	KindSequence
	KindWhile
	KindWhenAll
	KindWhenAny
	KindAfter
)

var kindNames = map[Kind]string{
	KindAction:        "action",
	KindWaitForSignal: "waitForSignal",
	KindWait:          "wait",
	KindWaitForever:   "waitForever",
	KindFail:          "fail",
	KindAlwaysSucceed: "alwaysSucceed",
	KindIf:            "if",
	KindSelect:        "select",
	KindSequence:      "sequence",
	KindWhile:         "while",
	KindWhenAll:       "whenAll",
	KindWhenAny:       "whenAny",
	KindAfter:         "after",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) MarshalText() ([]byte, error) {
	if name, ok := kindNames[k]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("invalid behavior kind %d", uint8(k))
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("invalid behavior kind %q", text)
}

// Behavior is an immutable description of a behavior tree node. Values are
// built with a Builder and may be shared freely; compiling one into a State
// never modifies it.
type Behavior[A any] struct {
	kind     Kind
	action   A
	signal   Signal
	duration float64
	// cond is the child of Fail and AlwaysSucceed, and the condition of If
	// and While.
	cond     *Behavior[A]
	success  *Behavior[A]
	failure  *Behavior[A]
	children []Behavior[A]
}

// Kind returns the variant of b. The zero Behavior has kind 0, which is not
// valid.
func (b Behavior[A]) Kind() Kind { return b.kind }

// Action returns the payload of an action leaf.
func (b Behavior[A]) Action() A { return b.action }

// Signal returns the awaited signal of a WaitForSignal leaf.
func (b Behavior[A]) Signal() Signal { return b.signal }

// Duration returns the seconds of a Wait leaf.
func (b Behavior[A]) Duration() float64 { return b.duration }

// Children returns the direct children of b in a uniform order:
//
//	Fail, AlwaysSucceed:            [child]
//	If:                             [condition, success, failure]
//	While:                          [condition, body...]
//	Select, Sequence, WhenAll,
//	WhenAny, After:                 children
//
// Leaves return nil. The returned slice is a copy.
func (b Behavior[A]) Children() []Behavior[A] {
	switch b.kind {
	case KindFail, KindAlwaysSucceed:
		return []Behavior[A]{*b.cond}
	case KindIf:
		return []Behavior[A]{*b.cond, *b.success, *b.failure}
	case KindWhile:
		out := make([]Behavior[A], 0, len(b.children)+1)
		out = append(out, *b.cond)
		return append(out, b.children...)
	case KindSelect, KindSequence, KindWhenAll, KindWhenAny, KindAfter:
		return append([]Behavior[A](nil), b.children...)
	default:
		return nil
	}
}

// Clone returns a deep copy of b. Action payloads are copied by value.
func (b Behavior[A]) Clone() Behavior[A] {
	out := b
	out.cond = clonePtr(b.cond)
	out.success = clonePtr(b.success)
	out.failure = clonePtr(b.failure)
	if b.children != nil {
		out.children = make([]Behavior[A], len(b.children))
		for i, c := range b.children {
			out.children[i] = c.Clone()
		}
	}
	return out
}

func clonePtr[A any](b *Behavior[A]) *Behavior[A] {
	if b == nil {
		return nil
	}
	c := b.Clone()
	return &c
}

// ErrMalformed is wrapped by every error returned from Validate.
var ErrMalformed = errors.New("malformed behavior")

// Validate walks b and reports the first structural problem: an unknown
// kind, a negative or NaN wait duration, a missing child, or an empty
// Select, Sequence or While body. NewState panics on the same conditions
// for the node it compiles; Validate checks the whole tree up front.
func (b Behavior[A]) Validate() error {
	return b.validate("root")
}

func (b Behavior[A]) validate(path string) error {
	switch b.kind {
	case KindAction, KindWaitForSignal, KindWaitForever:
		return nil
	case KindWait:
		if math.IsNaN(b.duration) || b.duration < 0 {
			return fmt.Errorf("%w: %s: invalid wait duration %v", ErrMalformed, path, b.duration)
		}
		return nil
	case KindFail, KindAlwaysSucceed:
		if b.cond == nil {
			return fmt.Errorf("%w: %s: %s without child", ErrMalformed, path, b.kind)
		}
		return b.cond.validate(path + "." + b.kind.String())
	case KindIf:
		if b.cond == nil || b.success == nil || b.failure == nil {
			return fmt.Errorf("%w: %s: if requires condition, success and failure", ErrMalformed, path)
		}
		if err := b.cond.validate(path + ".if.condition"); err != nil {
			return err
		}
		if err := b.success.validate(path + ".if.success"); err != nil {
			return err
		}
		return b.failure.validate(path + ".if.failure")
	case KindWhile:
		if b.cond == nil {
			return fmt.Errorf("%w: %s: while without condition", ErrMalformed, path)
		}
		if err := b.cond.validate(path + ".while.condition"); err != nil {
			return err
		}
	case KindSelect, KindSequence, KindWhenAll, KindWhenAny, KindAfter:
	default:
		return fmt.Errorf("%w: %s: %s", ErrMalformed, path, b.kind)
	}
	if len(b.children) == 0 && requiresChildren(b.kind) {
		return fmt.Errorf("%w: %s: %s requires at least one child", ErrMalformed, path, b.kind)
	}
	for i, c := range b.children {
		if err := c.validate(fmt.Sprintf("%s.%s[%d]", path, b.kind, i)); err != nil {
			return err
		}
	}
	return nil
}

func requiresChildren(k Kind) bool {
	return k == KindSelect || k == KindSequence || k == KindWhile
}
