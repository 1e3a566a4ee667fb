// Package builder provides shorthand combinators built from the core
// behavior nodes. Every helper returns a plain behaviorx.Behavior, so trees
// built here compile, validate and persist like any other.
package builder

import "github.com/comalice/behaviorx"

// Forever repeats body until it fails.
func Forever[A any](body ...behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.While(b.WaitForever(), body...)
}

// RunFor repeats body until more than seconds have elapsed, then succeeds.
func RunFor[A any](seconds float64, body ...behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.While(b.Wait(seconds), body...)
}

// Repeat runs body n times in a row. n must be at least 1.
func Repeat[A any](n int, body behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	seq := make([]behaviorx.Behavior[A], n)
	for i := range seq {
		seq[i] = body
	}
	return b.Sequence(seq...)
}

// Delay runs next after more than seconds have elapsed.
func Delay[A any](seconds float64, next behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.Sequence(b.Wait(seconds), next)
}

// Click succeeds once button has been pressed and then released.
func Click[A any](button string) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.Sequence(b.Pressed(button), b.Released(button))
}

// Invert swaps the result of child.
func Invert[A any](child behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.Fail(child)
}

// Optional runs child and succeeds whatever its result.
func Optional[A any](child behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.AlwaysSucceed(child)
}

// Race succeeds with the first contender to succeed.
func Race[A any](contenders ...behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.WhenAny(contenders...)
}

// Unless runs then only if cond fails. It succeeds as soon as cond succeeds.
func Unless[A any](cond, then behaviorx.Behavior[A]) behaviorx.Behavior[A] {
	var b behaviorx.Builder[A]
	return b.Select(cond, then)
}
