package primitives

import (
	"errors"
	"fmt"
	"math"

	"github.com/comalice/behaviorx"
)

// ErrInvalidTree is wrapped by every validation error in this package.
var ErrInvalidTree = errors.New("invalid tree")

// ActionConfig is the payload of an action leaf. Name selects the runner
// implementation; Params are passed to it unchanged.
type ActionConfig struct {
	Name   string         `json:"name" yaml:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Param returns a parameter by key.
func (a ActionConfig) Param(key string) (any, bool) {
	v, ok := a.Params[key]
	return v, ok
}

// SignalConfig names the signal a waitForSignal leaf waits for.
type SignalConfig struct {
	Kind   string `json:"kind" yaml:"kind"` // press or release
	Button string `json:"button" yaml:"button"`
}

// Signal converts c to the engine's signal type.
func (c SignalConfig) Signal() (behaviorx.Signal, error) {
	kind, err := parseSignalKind(c.Kind)
	if err != nil {
		return behaviorx.Signal{}, err
	}
	return behaviorx.Signal{Kind: kind, Button: c.Button}, nil
}

func parseSignalKind(s string) (behaviorx.SignalKind, error) {
	switch s {
	case "press":
		return behaviorx.Press, nil
	case "release":
		return behaviorx.Release, nil
	default:
		return 0, fmt.Errorf("unknown signal kind %q", s)
	}
}

// NodeConfig defines one node of a tree. Which fields apply depends on Type:
//
//	action:                 action
//	waitForSignal:          signal
//	wait:                   seconds
//	waitForever:            -
//	fail, alwaysSucceed:    children (exactly one)
//	if:                     condition, success, failure
//	while:                  condition, children (the body, at least one)
//	select, sequence:       children (at least one)
//	whenAll, whenAny, after: children
type NodeConfig struct {
	Type      behaviorx.Kind `json:"type" yaml:"type"`
	Action    *ActionConfig  `json:"action,omitempty" yaml:"action,omitempty"`
	Signal    *SignalConfig  `json:"signal,omitempty" yaml:"signal,omitempty"`
	Seconds   float64        `json:"seconds,omitempty" yaml:"seconds,omitempty"`
	Condition *NodeConfig    `json:"condition,omitempty" yaml:"condition,omitempty"`
	Success   *NodeConfig    `json:"success,omitempty" yaml:"success,omitempty"`
	Failure   *NodeConfig    `json:"failure,omitempty" yaml:"failure,omitempty"`
	Children  []NodeConfig   `json:"children,omitempty" yaml:"children,omitempty"`
}

// Validate checks n and all of its descendants.
func (n *NodeConfig) Validate() error {
	return n.validate("root")
}

func (n *NodeConfig) validate(path string) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidTree, path, fmt.Sprintf(format, args...))
	}

	leaf := n.Condition == nil && n.Success == nil && n.Failure == nil && len(n.Children) == 0
	switch n.Type {
	case behaviorx.KindAction:
		if n.Action == nil || n.Action.Name == "" {
			return invalid("action requires a name")
		}
	case behaviorx.KindWaitForSignal:
		if n.Signal == nil || n.Signal.Button == "" {
			return invalid("waitForSignal requires a signal button")
		}
		if _, err := parseSignalKind(n.Signal.Kind); err != nil {
			return invalid("%v", err)
		}
	case behaviorx.KindWait:
		if math.IsNaN(n.Seconds) || n.Seconds < 0 {
			return invalid("invalid wait duration %v", n.Seconds)
		}
	case behaviorx.KindWaitForever:
	case behaviorx.KindFail, behaviorx.KindAlwaysSucceed:
		if len(n.Children) != 1 || n.Condition != nil || n.Success != nil || n.Failure != nil {
			return invalid("%s requires exactly one child", n.Type)
		}
		return n.validateChildren(path)
	case behaviorx.KindIf:
		if n.Condition == nil || n.Success == nil || n.Failure == nil {
			return invalid("if requires condition, success and failure")
		}
		if len(n.Children) > 0 {
			return invalid("if does not take children")
		}
		if err := n.Condition.validate(path + ".condition"); err != nil {
			return err
		}
		if err := n.Success.validate(path + ".success"); err != nil {
			return err
		}
		return n.Failure.validate(path + ".failure")
	case behaviorx.KindWhile:
		if n.Condition == nil {
			return invalid("while requires a condition")
		}
		if len(n.Children) == 0 {
			return invalid("while requires at least one child")
		}
		if err := n.Condition.validate(path + ".condition"); err != nil {
			return err
		}
		return n.validateChildren(path)
	case behaviorx.KindSelect, behaviorx.KindSequence:
		if len(n.Children) == 0 {
			return invalid("%s requires at least one child", n.Type)
		}
		fallthrough
	case behaviorx.KindWhenAll, behaviorx.KindWhenAny, behaviorx.KindAfter:
		if n.Condition != nil || n.Success != nil || n.Failure != nil {
			return invalid("%s only takes children", n.Type)
		}
		return n.validateChildren(path)
	default:
		return invalid("unknown node type %s", n.Type)
	}
	if !leaf {
		return invalid("%s does not take child nodes", n.Type)
	}
	return nil
}

func (n *NodeConfig) validateChildren(path string) error {
	for i := range n.Children {
		if err := n.Children[i].validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Walk calls fn for n and every descendant in depth-first order, condition
// and branches before children. Paths use the same notation as validation
// errors. Walk stops at the first error fn returns.
func (n *NodeConfig) Walk(fn func(path string, node *NodeConfig) error) error {
	return n.walk("root", fn)
}

func (n *NodeConfig) walk(path string, fn func(string, *NodeConfig) error) error {
	if err := fn(path, n); err != nil {
		return err
	}
	for _, branch := range []struct {
		name string
		node *NodeConfig
	}{{"condition", n.Condition}, {"success", n.Success}, {"failure", n.Failure}} {
		if branch.node == nil {
			continue
		}
		if err := branch.node.walk(path+"."+branch.name, fn); err != nil {
			return err
		}
	}
	for i := range n.Children {
		if err := n.Children[i].walk(fmt.Sprintf("%s.children[%d]", path, i), fn); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of n. Action parameters are copied one level
// deep.
func (n NodeConfig) Clone() NodeConfig {
	out := n
	if n.Action != nil {
		a := *n.Action
		if n.Action.Params != nil {
			a.Params = make(map[string]any, len(n.Action.Params))
			for k, v := range n.Action.Params {
				a.Params[k] = v
			}
		}
		out.Action = &a
	}
	if n.Signal != nil {
		s := *n.Signal
		out.Signal = &s
	}
	out.Condition = cloneNode(n.Condition)
	out.Success = cloneNode(n.Success)
	out.Failure = cloneNode(n.Failure)
	if n.Children != nil {
		out.Children = make([]NodeConfig, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

func cloneNode(n *NodeConfig) *NodeConfig {
	if n == nil {
		return nil
	}
	c := n.Clone()
	return &c
}
