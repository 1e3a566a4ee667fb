package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/primitives"
	"github.com/comalice/behaviorx/realtime"
)

var _ realtime.Stepper = (*Agent)(nil)

// ErrNoPersister is returned by Save when no Persister is configured.
var ErrNoPersister = errors.New("no persister configured")

// Agent runs one behavior tree definition.
// Step is safe for concurrent use; steps are applied one at a time.
type Agent struct {
	id       uuid.UUID
	tree     primitives.TreeConfig
	version  string
	behavior behaviorx.Behavior[primitives.ActionConfig]

	mu     sync.Mutex
	state  *behaviorx.State[primitives.ActionConfig, any]
	status behaviorx.Status
	steps  uint64

	runner     ActionRunner
	blackboard *behaviorx.Blackboard
	publisher  EventPublisher
	persister  Persister
	visualizer Visualizer
	registry   Registry
	logger     *zap.Logger
}

// NewAgent validates and compiles tree. With a Registry configured, the tree
// is registered and the agent reports the registry's version; registering a
// definition that already exists is not an error.
func NewAgent(ctx context.Context, tree primitives.TreeConfig, opts ...Option) (*Agent, error) {
	bh, err := tree.Build()
	if err != nil {
		return nil, err
	}

	a := &Agent{
		id:       uuid.New(),
		tree:     tree.Clone(),
		version:  primitives.ComputeVersion(&tree),
		behavior: bh,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.blackboard == nil {
		a.blackboard = behaviorx.NewBlackboard()
	}
	a.logger = a.logger.With(
		zap.Stringer("agent", a.id),
		zap.String("tree", tree.ID),
		zap.String("version", a.version))
	if a.runner == nil {
		a.runner = unknownActions{logger: a.logger}
	}

	if a.registry != nil {
		if _, err := a.registry.Register(ctx, tree); err != nil && !errors.Is(err, ErrExists) {
			return nil, fmt.Errorf("register tree %q: %w", tree.ID, err)
		}
	}

	a.state = behaviorx.NewState[primitives.ActionConfig, any](bh)
	a.status = behaviorx.Running
	return a, nil
}

// Step feeds e to the tree and publishes a StepRecord.
func (a *Agent) Step(ctx context.Context, e behaviorx.Event) (behaviorx.Status, float64) {
	a.mu.Lock()
	status, left := a.state.Step(e, a.runner)
	a.status = status
	a.steps++
	record := StepRecord{
		AgentID:   a.id.String(),
		TreeID:    a.tree.ID,
		Version:   a.version,
		Event:     primitives.NewEventConfig(e),
		Status:    status,
		Leftover:  left,
		Step:      a.steps,
		Timestamp: time.Now(),
	}
	a.mu.Unlock()

	if status.Terminal() {
		a.logger.Info("tree finished",
			zap.Stringer("status", status),
			zap.Float64("leftover", left),
			zap.Uint64("step", record.Step))
	}
	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, record); err != nil {
			a.logger.Warn("publish step record", zap.Error(err))
		}
	}
	return status, left
}

// Restart discards all progress and compiles the tree afresh. The blackboard
// is left as is.
func (a *Agent) Restart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = behaviorx.NewState[primitives.ActionConfig, any](a.behavior)
	a.status = behaviorx.Running
	a.steps = 0
	a.logger.Debug("tree restarted")
}

// Status returns the status of the last step, Running before the first.
func (a *Agent) Status() behaviorx.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Steps returns the number of steps since creation or the last Restart.
func (a *Agent) Steps() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.steps
}

func (a *Agent) ID() uuid.UUID { return a.id }

// Config returns the tree definition.
func (a *Agent) Config() primitives.TreeConfig { return a.tree }

// Version returns the tree's version.
func (a *Agent) Version() string { return a.version }

func (a *Agent) Blackboard() *behaviorx.Blackboard { return a.blackboard }

// Save stores the tree definition with the configured Persister.
func (a *Agent) Save(ctx context.Context) error {
	if a.persister == nil {
		return ErrNoPersister
	}
	if err := a.persister.Save(ctx, a.tree); err != nil {
		return fmt.Errorf("save tree %q: %w", a.tree.ID, err)
	}
	return nil
}

// Visualize returns the Graphviz DOT visualization of the tree, highlighting
// the current status.
func (a *Agent) Visualize() string {
	if a.visualizer == nil {
		return "ERROR: No visualizer configured. Use WithVisualizer(&production.DefaultVisualizer{})"
	}
	return a.visualizer.ExportDOT(a.tree.Root, a.Status())
}

// unknownActions fails every action, for agents created without a runner.
type unknownActions struct {
	logger *zap.Logger
}

func (u unknownActions) Run(args ActionArgs) (behaviorx.Status, float64) {
	u.logger.Warn("no action runner configured", zap.String("action", args.Action.Name))
	return behaviorx.Failure, args.DT
}
