// Package core provides the agent runtime: a validated tree definition bound
// to its compiled state, an action runner, a blackboard and the pluggable
// production components declared here.
package core

import (
	"context"
	"time"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/primitives"
)

// ActionRunner executes the action leaves of a tree definition. Leaf memory
// is untyped so runners of different kinds can share one tree.
type ActionRunner = behaviorx.ActionRunner[primitives.ActionConfig, any]

// ActionArgs is what an ActionRunner receives for every step of a leaf.
type ActionArgs = behaviorx.ActionArgs[primitives.ActionConfig, any]

// Persister stores tree definitions by ID.
type Persister interface {
	Save(ctx context.Context, tree primitives.TreeConfig) error
	Load(ctx context.Context, treeID string) (primitives.TreeConfig, error)
}

// StepRecord describes one step of an agent.
type StepRecord struct {
	AgentID   string                 `json:"agentID" yaml:"agentID"`
	TreeID    string                 `json:"treeID" yaml:"treeID"`
	Version   string                 `json:"version" yaml:"version"`
	Event     primitives.EventConfig `json:"event" yaml:"event"`
	Status    behaviorx.Status       `json:"status" yaml:"status"`
	Leftover  float64                `json:"leftover" yaml:"leftover"`
	Step      uint64                 `json:"step" yaml:"step"`
	Timestamp time.Time              `json:"timestamp" yaml:"timestamp"`
}

// EventPublisher receives a record of every step.
type EventPublisher interface {
	Publish(ctx context.Context, record StepRecord) error
	Close() error
}

// Visualizer renders tree definitions.
type Visualizer interface {
	ExportDOT(root primitives.NodeConfig, status behaviorx.Status) string
	ExportJSON(tree primitives.TreeConfig) ([]byte, error)
}
