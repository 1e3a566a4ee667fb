package production

import (
	"context"

	"go.uber.org/zap"

	"github.com/comalice/behaviorx/internal/core"
)

// ChannelPublisher forwards step records to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- core.StepRecord
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- core.StepRecord) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, record core.StepRecord) error {
	select {
	case p.ch <- record:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// LogPublisher writes every step record to a zap logger. Running steps are
// logged at debug level, finished ones at info.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, record core.StepRecord) error {
	level := zap.DebugLevel
	if record.Status.Terminal() {
		level = zap.InfoLevel
	}
	p.logger.Log(level, "step",
		zap.String("agent", record.AgentID),
		zap.String("tree", record.TreeID),
		zap.String("version", record.Version),
		zap.Stringer("event", record.Event),
		zap.Stringer("status", record.Status),
		zap.Float64("leftover", record.Leftover),
		zap.Uint64("step", record.Step))
	return nil
}

func (p *LogPublisher) Close() error {
	return p.logger.Sync()
}

// MultiPublisher fans records out to several publishers. Every publisher is
// tried; the first error is returned.
type MultiPublisher []core.EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, record core.StepRecord) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, record); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m MultiPublisher) Close() error {
	var first error
	for _, p := range m {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
