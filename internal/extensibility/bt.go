package extensibility

import (
	"context"

	bt "github.com/joeycumines/go-behaviortree"
	"go.uber.org/zap"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/core"
	"github.com/comalice/behaviorx/realtime"
)

// NodeRunner runs action leaves as go-behaviortree nodes. Each leaf gets its
// own node from the factory registered under its action name, kept in the
// leaf's memory until the node finishes. Every step ticks the node once.
type NodeRunner struct {
	factories map[string]func() bt.Node
	logger    *zap.Logger
}

// NewNodeRunner creates a runner for the given factories. A nil logger
// disables logging.
func NewNodeRunner(factories map[string]func() bt.Node, logger *zap.Logger) *NodeRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NodeRunner{factories: factories, logger: logger}
}

func (r *NodeRunner) Run(args core.ActionArgs) (behaviorx.Status, float64) {
	var node bt.Node
	if v, ok := args.Memory.Get(); ok {
		node = v.(bt.Node)
	} else {
		factory, ok := r.factories[args.Action.Name]
		if !ok {
			r.logger.Warn("no node for action", zap.String("action", args.Action.Name))
			return behaviorx.Failure, args.DT
		}
		node = factory()
	}

	status, err := node.Tick()
	if err != nil {
		r.logger.Error("node tick failed", zap.String("action", args.Action.Name), zap.Error(err))
		args.Memory.Clear()
		return behaviorx.Failure, args.DT
	}
	switch status {
	case bt.Success:
		args.Memory.Clear()
		return behaviorx.Success, args.DT
	case bt.Failure:
		args.Memory.Clear()
		return behaviorx.Failure, args.DT
	default:
		args.Memory.Set(node)
		return behaviorx.Running, 0
	}
}

// AsNode exposes s as a go-behaviortree node. Each tick steps s with an
// update of dt seconds.
func AsNode(ctx context.Context, s realtime.Stepper, dt float64) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if err := ctx.Err(); err != nil {
			return bt.Failure, err
		}
		status, _ := s.Step(ctx, behaviorx.UpdateEvent(dt))
		switch status {
		case behaviorx.Success:
			return bt.Success, nil
		case behaviorx.Failure:
			return bt.Failure, nil
		default:
			return bt.Running, nil
		}
	})
}
