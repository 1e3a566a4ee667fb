package primitives

import (
	"fmt"

	"github.com/comalice/behaviorx"
)

// Build validates n and converts it into a Behavior.
func Build(n NodeConfig) (behaviorx.Behavior[ActionConfig], error) {
	if err := n.Validate(); err != nil {
		return behaviorx.Behavior[ActionConfig]{}, err
	}
	return build(n), nil
}

// Build validates the tree and converts its root into a Behavior.
func (t *TreeConfig) Build() (behaviorx.Behavior[ActionConfig], error) {
	if err := t.Validate(); err != nil {
		return behaviorx.Behavior[ActionConfig]{}, err
	}
	return build(t.Root), nil
}

var nodes behaviorx.Builder[ActionConfig]

// build assumes n is valid.
func build(n NodeConfig) behaviorx.Behavior[ActionConfig] {
	switch n.Type {
	case behaviorx.KindAction:
		return nodes.Action(*n.Action)
	case behaviorx.KindWaitForSignal:
		sig, _ := n.Signal.Signal()
		return nodes.WaitForSignal(sig)
	case behaviorx.KindWait:
		return nodes.Wait(n.Seconds)
	case behaviorx.KindWaitForever:
		return nodes.WaitForever()
	case behaviorx.KindFail:
		return nodes.Fail(build(n.Children[0]))
	case behaviorx.KindAlwaysSucceed:
		return nodes.AlwaysSucceed(build(n.Children[0]))
	case behaviorx.KindIf:
		return nodes.If(build(*n.Condition), build(*n.Success), build(*n.Failure))
	case behaviorx.KindWhile:
		return nodes.While(build(*n.Condition), buildAll(n.Children)...)
	case behaviorx.KindSelect:
		return nodes.Select(buildAll(n.Children)...)
	case behaviorx.KindSequence:
		return nodes.Sequence(buildAll(n.Children)...)
	case behaviorx.KindWhenAll:
		return nodes.WhenAll(buildAll(n.Children)...)
	case behaviorx.KindWhenAny:
		return nodes.WhenAny(buildAll(n.Children)...)
	case behaviorx.KindAfter:
		return nodes.After(buildAll(n.Children)...)
	}
	panic(fmt.Sprintf("primitives: cannot build %s", n.Type))
}

func buildAll(nodes []NodeConfig) []behaviorx.Behavior[ActionConfig] {
	out := make([]behaviorx.Behavior[ActionConfig], len(nodes))
	for i, n := range nodes {
		out[i] = build(n)
	}
	return out
}

// FromBehavior converts a Behavior into its document form. Signals of kinds
// other than Press and Release are written with the kind's string form and
// will not validate.
func FromBehavior(bh behaviorx.Behavior[ActionConfig]) NodeConfig {
	n := NodeConfig{Type: bh.Kind()}
	children := bh.Children()
	switch bh.Kind() {
	case behaviorx.KindAction:
		action := bh.Action()
		n.Action = &action
	case behaviorx.KindWaitForSignal:
		sig := bh.Signal()
		n.Signal = &SignalConfig{Kind: sig.Kind.String(), Button: sig.Button}
	case behaviorx.KindWait:
		n.Seconds = bh.Duration()
	case behaviorx.KindIf:
		cond, ok, ko := FromBehavior(children[0]), FromBehavior(children[1]), FromBehavior(children[2])
		n.Condition, n.Success, n.Failure = &cond, &ok, &ko
		return n
	case behaviorx.KindWhile:
		cond := FromBehavior(children[0])
		n.Condition = &cond
		children = children[1:]
	}
	for _, c := range children {
		n.Children = append(n.Children, FromBehavior(c))
	}
	return n
}
