package realtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/comalice/behaviorx"
)

// processTick processes one complete tick. The caller holds stepMu.
func (rt *RealtimeRuntime) processTick(ctx context.Context) {
	// Phase 1: Collect events atomically
	events := rt.collectEvents()

	// Phase 2: Sort for deterministic order
	sortEvents(events)

	// Phase 3: Discrete events, then the time step
	if !rt.processEvents(ctx, events) {
		rt.step(ctx, behaviorx.UpdateEvent(rt.tickRate.Seconds()))
	}

	rt.batchMu.Lock()
	rt.tickNum++
	rt.batchMu.Unlock()
}

// collectEvents atomically retrieves and clears the event batch
func (rt *RealtimeRuntime) collectEvents() []EventWithMeta {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	events := rt.eventBatch
	rt.eventBatch = make([]EventWithMeta, 0, cap(rt.eventBatch))

	return events
}

// processEvents steps every queued event and reports whether the tree
// finished. Events after the finishing one are discarded.
func (rt *RealtimeRuntime) processEvents(ctx context.Context, events []EventWithMeta) bool {
	for i, meta := range events {
		if rt.step(ctx, meta.Event) {
			if rest := len(events) - i - 1; rest > 0 {
				rt.logger.Debug("discarding events after finish", zap.Int("count", rest))
			}
			return true
		}
	}
	return false
}

// step feeds one event to the tree and records a terminal result.
func (rt *RealtimeRuntime) step(ctx context.Context, e behaviorx.Event) bool {
	status, left := rt.stepper.Step(ctx, e)
	rt.status = status
	if !status.Terminal() {
		return false
	}
	rt.leftover = left
	close(rt.done)
	rt.logger.Info("behavior tree finished",
		zap.Stringer("status", status),
		zap.Float64("leftover", left),
		zap.Any("event", e),
		zap.Uint64("tick", rt.GetTickNumber()))
	return true
}
