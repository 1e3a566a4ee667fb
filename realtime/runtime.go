package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/behaviorx"
)

var (
	// ErrQueueFull is returned when more events are queued than a single tick
	// accepts.
	ErrQueueFull = errors.New("event queue full")
	// ErrStarted is returned by Start when the tick loop is already running.
	ErrStarted = errors.New("runtime already started")
)

// RealtimeRuntime feeds a Stepper queued discrete events and a fixed time
// step at every tick.
type RealtimeRuntime struct {
	id      uuid.UUID
	stepper Stepper
	logger  *zap.Logger
	source  EventSource

	tickRate time.Duration
	ticker   *time.Ticker
	tickNum  uint64

	// Event batching
	eventBatch  []EventWithMeta
	batchMu     sync.Mutex
	sequenceNum uint64

	// stepMu serializes ticks and guards the result fields.
	stepMu   sync.Mutex
	status   behaviorx.Status
	leftover float64
	done     chan struct{}

	// Control
	started    bool
	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
	stopOnce   sync.Once
}

// Config configures the real-time runtime
type Config struct {
	TickRate         time.Duration // Fixed tick rate (e.g., 16.67ms for 60 FPS)
	MaxEventsPerTick int           // Event queue capacity (default: 1000)
	Logger           *zap.Logger   // Defaults to a no-op logger
	Source           EventSource   // Optional external event feed
}

// NewRuntime creates a tick-based runtime around stepper.
func NewRuntime(stepper Stepper, cfg Config) *RealtimeRuntime {
	if cfg.MaxEventsPerTick == 0 {
		cfg.MaxEventsPerTick = 1000
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond // Default 60 FPS
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	id := uuid.New()
	return &RealtimeRuntime{
		id:         id,
		stepper:    stepper,
		logger:     cfg.Logger.With(zap.Stringer("runtime", id)),
		source:     cfg.Source,
		tickRate:   cfg.TickRate,
		eventBatch: make([]EventWithMeta, 0, cfg.MaxEventsPerTick),
		status:     behaviorx.Running,
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// ID identifies this runtime in logs.
func (rt *RealtimeRuntime) ID() uuid.UUID {
	return rt.id
}

// TickRate returns the fixed time step.
func (rt *RealtimeRuntime) TickRate() time.Duration {
	return rt.tickRate
}

// Start begins tick-based execution in a background goroutine.
func (rt *RealtimeRuntime) Start(ctx context.Context) error {
	rt.stepMu.Lock()
	defer rt.stepMu.Unlock()
	if rt.started {
		return ErrStarted
	}
	rt.started = true

	rt.tickCtx, rt.tickCancel = context.WithCancel(ctx)
	rt.ticker = time.NewTicker(rt.tickRate)
	if rt.source != nil {
		go rt.pump(rt.tickCtx)
	}
	go rt.tickLoop()

	rt.logger.Debug("runtime started", zap.Duration("tick_rate", rt.tickRate))
	return nil
}

// Stop halts the tick loop and waits for it to exit. It is safe to call
// Stop more than once, and before Start.
func (rt *RealtimeRuntime) Stop() error {
	rt.stepMu.Lock()
	started := rt.started
	rt.stepMu.Unlock()
	if !started {
		return nil
	}
	rt.stopOnce.Do(func() {
		rt.tickCancel()
		rt.ticker.Stop()
	})
	<-rt.stopped
	return nil
}

// Done is closed once the tree has finished.
func (rt *RealtimeRuntime) Done() <-chan struct{} {
	return rt.done
}

// Result returns the status of the last tick and, once the tree finished,
// the time left over from the step that finished it.
func (rt *RealtimeRuntime) Result() (behaviorx.Status, float64) {
	rt.stepMu.Lock()
	defer rt.stepMu.Unlock()
	return rt.status, rt.leftover
}

// Advance runs exactly one tick on the calling goroutine. Once the tree has
// finished, Advance only reports the final result.
func (rt *RealtimeRuntime) Advance(ctx context.Context) (behaviorx.Status, float64) {
	rt.stepMu.Lock()
	defer rt.stepMu.Unlock()
	if !rt.status.Terminal() {
		rt.processTick(ctx)
	}
	return rt.status, rt.leftover
}

func (rt *RealtimeRuntime) tickLoop() {
	defer close(rt.stopped)

	for {
		select {
		case <-rt.tickCtx.Done():
			return
		case <-rt.done:
			rt.ticker.Stop()
			return
		case <-rt.ticker.C:
			rt.safeTick()
		}
	}
}

// safeTick runs one tick, logging a panicking action instead of taking the
// process down.
func (rt *RealtimeRuntime) safeTick() {
	rt.stepMu.Lock()
	defer rt.stepMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("tick panicked",
				zap.Any("panic", r),
				zap.Uint64("tick", rt.GetTickNumber()),
				zap.Stack("stack"))
		}
	}()
	if rt.status.Terminal() {
		return
	}
	rt.processTick(rt.tickCtx)
}

// pump forwards events from the configured source into the queue.
func (rt *RealtimeRuntime) pump(ctx context.Context) {
	events := rt.source.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-rt.done:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := rt.SendEvent(e); err != nil {
				rt.logger.Warn("dropping event", zap.Any("event", e), zap.Error(err))
			}
		}
	}
}

// SendEvent queues an event for the next tick (thread-safe)
func (rt *RealtimeRuntime) SendEvent(event behaviorx.Event) error {
	return rt.SendEventWithPriority(event, 0)
}

// SendEventWithPriority queues an event with priority. Higher priorities are
// stepped first within a tick.
func (rt *RealtimeRuntime) SendEventWithPriority(event behaviorx.Event, priority int) error {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.eventBatch) >= cap(rt.eventBatch) {
		return ErrQueueFull
	}

	rt.eventBatch = append(rt.eventBatch, EventWithMeta{
		Event:       event,
		SequenceNum: rt.sequenceNum,
		Priority:    priority,
	})
	rt.sequenceNum++

	return nil
}

// GetTickNumber returns the current tick count
func (rt *RealtimeRuntime) GetTickNumber() uint64 {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	return rt.tickNum
}
