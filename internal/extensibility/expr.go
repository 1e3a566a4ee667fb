package extensibility

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/core"
)

// ExprActionRunner evaluates the expression in an action's "expr" parameter
// against the blackboard. The environment holds every blackboard key plus
// "dt", the step's time delta, and "params", the action's parameters.
//
// Without a "set" parameter the expression is a condition: true succeeds,
// anything else fails. With "set", the result is stored on the blackboard
// under that key and the action succeeds. Either way no time is consumed.
type ExprActionRunner struct {
	blackboard *behaviorx.Blackboard
	logger     *zap.Logger

	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewExprActionRunner creates a runner over bb. A nil logger disables logging.
func NewExprActionRunner(bb *behaviorx.Blackboard, logger *zap.Logger) *ExprActionRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExprActionRunner{
		blackboard: bb,
		logger:     logger,
		programs:   make(map[string]*vm.Program),
	}
}

func (r *ExprActionRunner) Run(args core.ActionArgs) (behaviorx.Status, float64) {
	src, ok := args.Action.Params["expr"].(string)
	if !ok {
		r.logger.Error("action has no expr parameter", zap.String("action", args.Action.Name))
		return behaviorx.Failure, args.DT
	}

	result, err := r.Eval(src, args.DT, args.Action.Params)
	if err != nil {
		r.logger.Error("expression failed",
			zap.String("action", args.Action.Name),
			zap.String("expr", src),
			zap.Error(err))
		return behaviorx.Failure, args.DT
	}

	if key, ok := args.Action.Params["set"].(string); ok {
		r.blackboard.Set(key, result)
		return behaviorx.Success, args.DT
	}
	if b, ok := result.(bool); ok && b {
		return behaviorx.Success, args.DT
	}
	return behaviorx.Failure, args.DT
}

// Eval compiles src, caching the program, and runs it.
func (r *ExprActionRunner) Eval(src string, dt float64, params map[string]any) (any, error) {
	program, err := r.program(src)
	if err != nil {
		return nil, err
	}
	env := r.blackboard.GetAll()
	env["dt"] = dt
	env["params"] = params
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", src, err)
	}
	return result, nil
}

// program returns the cached compiled program or compiles it.
func (r *ExprActionRunner) program(src string) (*vm.Program, error) {
	r.mu.RLock()
	program, ok := r.programs[src]
	r.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}

	r.mu.Lock()
	r.programs[src] = program
	r.mu.Unlock()
	return program, nil
}

// Cached returns the number of compiled programs.
func (r *ExprActionRunner) Cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.programs)
}
