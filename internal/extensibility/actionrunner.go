package extensibility

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/core"
	"github.com/comalice/behaviorx/internal/primitives"
)

// ErrUnknownAction is returned by Check for actions without a handler.
var ErrUnknownAction = errors.New("unknown action")

// ActionTable dispatches action leaves to runners by action name.
type ActionTable struct {
	mu       sync.RWMutex
	handlers map[string]core.ActionRunner
	logger   *zap.Logger
}

// NewActionTable creates an empty table. A nil logger disables logging.
func NewActionTable(logger *zap.Logger) *ActionTable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionTable{
		handlers: make(map[string]core.ActionRunner),
		logger:   logger,
	}
}

// Register binds name to r, replacing any earlier binding.
func (t *ActionTable) Register(name string, r core.ActionRunner) *ActionTable {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[name] = r
	return t
}

// Handle binds name to fn.
func (t *ActionTable) Handle(name string, fn func(core.ActionArgs) (behaviorx.Status, float64)) *ActionTable {
	return t.Register(name, behaviorx.ActionFunc[primitives.ActionConfig, any](fn))
}

// Check reports every name in names that has no handler.
func (t *ActionTable) Check(names []string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var missing []string
	for _, name := range names {
		if _, ok := t.handlers[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrUnknownAction, strings.Join(missing, ", "))
}

// Run executes the handler registered for the action's name. Unknown
// actions fail without consuming time.
func (t *ActionTable) Run(args core.ActionArgs) (behaviorx.Status, float64) {
	t.mu.RLock()
	h, ok := t.handlers[args.Action.Name]
	t.mu.RUnlock()
	if !ok {
		t.logger.Warn("unknown action", zap.String("action", args.Action.Name))
		return behaviorx.Failure, args.DT
	}
	return h.Run(args)
}

// LoggingActionRunner wraps an ActionRunner and adds logging around execution.
type LoggingActionRunner struct {
	inner  core.ActionRunner
	logger *zap.Logger
}

// NewLoggingActionRunner creates a new LoggingActionRunner wrapping the given inner runner.
func NewLoggingActionRunner(inner core.ActionRunner, logger *zap.Logger) *LoggingActionRunner {
	return &LoggingActionRunner{inner: inner, logger: logger}
}

// Run logs before and after delegating to the inner runner.
func (r *LoggingActionRunner) Run(args core.ActionArgs) (behaviorx.Status, float64) {
	r.logger.Debug("executing action",
		zap.String("action", args.Action.Name),
		zap.Any("event", args.Event),
		zap.Float64("dt", args.DT))
	start := time.Now()
	status, left := r.inner.Run(args)
	r.logger.Debug("action completed",
		zap.String("action", args.Action.Name),
		zap.Stringer("status", status),
		zap.Float64("leftover", left),
		zap.Duration("took", time.Since(start)))
	return status, left
}
