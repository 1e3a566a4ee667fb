package behaviorx

// Builder constructs behaviors over the action type A. The zero value is
// ready to use:
//
//	var b behaviorx.Builder[Action]
//	tree := b.Sequence(b.Wait(1), b.Action(Jump))
type Builder[A any] struct{}

// Action is a leaf that runs a through the ActionRunner.
func (Builder[A]) Action(a A) Behavior[A] {
	return Behavior[A]{kind: KindAction, action: a}
}

// WaitForSignal succeeds as soon as sig arrives.
func (Builder[A]) WaitForSignal(sig Signal) Behavior[A] {
	return Behavior[A]{kind: KindWaitForSignal, signal: sig}
}

// Pressed succeeds when button is pressed.
func (b Builder[A]) Pressed(button string) Behavior[A] {
	return b.WaitForSignal(Signal{Kind: Press, Button: button})
}

// Released succeeds when button is released.
func (b Builder[A]) Released(button string) Behavior[A] {
	return b.WaitForSignal(Signal{Kind: Release, Button: button})
}

// Wait succeeds once more than seconds have elapsed.
func (Builder[A]) Wait(seconds float64) Behavior[A] {
	return Behavior[A]{kind: KindWait, duration: seconds}
}

// WaitForever never finishes.
func (Builder[A]) WaitForever() Behavior[A] {
	return Behavior[A]{kind: KindWaitForever}
}

// Fail turns Success of child into Failure and vice versa.
func (Builder[A]) Fail(child Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindFail, cond: &child}
}

// AlwaysSucceed turns any finished result of child into Success.
func (Builder[A]) AlwaysSucceed(child Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindAlwaysSucceed, cond: &child}
}

// If runs condition once, then success or failure depending on its result.
func (Builder[A]) If(condition, success, failure Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindIf, cond: &condition, success: &success, failure: &failure}
}

// Select runs children in order until one succeeds.
func (Builder[A]) Select(children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindSelect, children: own(children)}
}

// Sequence runs children in order until one fails.
func (Builder[A]) Sequence(children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindSequence, children: own(children)}
}

// While repeats body while condition is running. The loop ends with the
// condition's result, or with Failure when the body fails.
func (Builder[A]) While(condition Behavior[A], body ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindWhile, cond: &condition, children: own(body)}
}

// WhenAll runs children in parallel and succeeds when all of them have.
func (Builder[A]) WhenAll(children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindWhenAll, children: own(children)}
}

// WhenAny runs children in parallel and succeeds when one of them has.
func (Builder[A]) WhenAny(children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindWhenAny, children: own(children)}
}

// After runs children in parallel and succeeds when they have succeeded in
// order. A child finishing out of order fails the node.
func (Builder[A]) After(children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindAfter, children: own(children)}
}

// own copies a variadic argument so later writes to the caller's slice do
// not reach the behavior.
func own[A any](children []Behavior[A]) []Behavior[A] {
	return append([]Behavior[A](nil), children...)
}
