package core

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/behaviorx"
)

// Option applies configuration to an Agent.
type Option func(*Agent)

// WithActionRunner configures the Agent with the runner for its action leaves.
func WithActionRunner(r ActionRunner) Option {
	return func(a *Agent) {
		a.runner = r
	}
}

// WithPublisher configures the Agent with a custom EventPublisher.
func WithPublisher(pb EventPublisher) Option {
	return func(a *Agent) {
		a.publisher = pb
	}
}

// WithPersister configures the Agent with a Persister used by Save.
func WithPersister(p Persister) Option {
	return func(a *Agent) {
		a.persister = p
	}
}

// WithVisualizer configures the Agent with a custom Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(a *Agent) {
		a.visualizer = v
	}
}

// WithRegistry registers the Agent's tree in r on creation.
func WithRegistry(r Registry) Option {
	return func(a *Agent) {
		a.registry = r
	}
}

// WithBlackboard shares bb with the Agent instead of a fresh one.
func WithBlackboard(bb *behaviorx.Blackboard) Option {
	return func(a *Agent) {
		a.blackboard = bb
	}
}

// WithLogger configures the Agent's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		a.logger = l
	}
}

// WithID overrides the generated agent ID.
func WithID(id uuid.UUID) Option {
	return func(a *Agent) {
		a.id = id
	}
}
