// Command demo runs a behavior tree definition on the real-time runtime and
// prints every step.
//
//	demo [config.yaml]
//
// The tree is loaded from the configured directory. If it does not exist yet,
// a built-in patrol tree is saved there and run instead. SIGINT or SIGTERM
// presses the "stop" button; a second signal aborts the run.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/builder"
	"github.com/comalice/behaviorx/internal/config"
	"github.com/comalice/behaviorx/internal/core"
	"github.com/comalice/behaviorx/internal/extensibility"
	"github.com/comalice/behaviorx/internal/primitives"
	"github.com/comalice/behaviorx/internal/production"
	"github.com/comalice/behaviorx/realtime"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()
	}

	persister, err := newPersister(cfg.Tree)
	if err != nil {
		return err
	}
	tree, err := persister.Load(ctx, cfg.Tree.ID)
	fallback := errors.Is(err, os.ErrNotExist)
	switch {
	case fallback:
		logger.Info("tree not found, using built-in patrol", zap.String("tree", cfg.Tree.ID))
		tree = patrolTree(cfg.Tree.ID)
	case err != nil:
		return err
	}

	bb := behaviorx.NewBlackboard()
	bb.Set("energy", 3)

	exprRunner := extensibility.NewExprActionRunner(bb, logger)
	table := extensibility.NewActionTable(logger).
		Register("hasEnergy", exprRunner).
		Register("tire", exprRunner).
		Register("rest", exprRunner).
		Handle("walk", walk)
	if err := table.Check(tree.Actions()); err != nil {
		return err
	}

	records := make(chan core.StepRecord, 256)
	agent, err := core.NewAgent(ctx, tree,
		core.WithActionRunner(extensibility.NewLoggingActionRunner(table, logger)),
		core.WithBlackboard(bb),
		core.WithPersister(persister),
		core.WithPublisher(production.NewChannelPublisher(records)),
		core.WithRegistry(production.NewMemoryRegistry()),
		core.WithVisualizer(&production.DefaultVisualizer{}),
		core.WithLogger(logger))
	if err != nil {
		return err
	}
	if fallback {
		if err := agent.Save(ctx); err != nil {
			logger.Warn("save built-in tree", zap.Error(err))
		}
	}

	rt := realtime.NewRuntime(agent, realtime.Config{
		TickRate:         cfg.Runtime.TickRate,
		MaxEventsPerTick: cfg.Runtime.MaxEventsPerTick,
		Logger:           logger,
	})

	g, ctx := errgroup.WithContext(ctx)
	finished := make(chan struct{})

	// Runtime: runs until the tree finishes or the run is aborted.
	g.Go(func() error {
		defer close(records)
		defer close(finished)
		if err := rt.Start(ctx); err != nil {
			return err
		}
		select {
		case <-rt.Done():
		case <-ctx.Done():
		}
		return rt.Stop()
	})

	// Signals: the first one asks the tree to stop, the next aborts.
	g.Go(func() error {
		sig := make(chan os.Signal, 2)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		pressed := false
		for {
			select {
			case <-finished:
				return nil
			case s := <-sig:
				if pressed {
					return fmt.Errorf("aborted by %v", s)
				}
				pressed = true
				logger.Info("stopping patrol", zap.Stringer("signal", s))
				if err := rt.SendEventWithPriority(behaviorx.PressEvent("stop"), 1); err != nil {
					return err
				}
			}
		}
	})

	// Records: printed until the runtime is done.
	g.Go(func() error {
		for r := range records {
			fmt.Printf("step %4d  %-14s %-8s leftover=%g\n", r.Step, r.Event, r.Status, r.Leftover)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	status, left := rt.Result()
	fmt.Printf("\n%s finished: %s (leftover %g, energy %v)\n", tree.ID, status, left, bb.Get("energy"))
	fmt.Println(agent.Visualize())
	return nil
}

func newPersister(cfg config.TreeConfig) (core.Persister, error) {
	if cfg.Format == "json" {
		return production.NewJSONPersister(cfg.Dir)
	}
	return production.NewYAMLPersister(cfg.Dir)
}

// patrolTree walks and rests in turns until energy runs out, then recovers
// some. Pressing "stop" ends the patrol early.
func patrolTree(id string) primitives.TreeConfig {
	var b behaviorx.Builder[primitives.ActionConfig]
	action := func(name string, params map[string]any) behaviorx.Behavior[primitives.ActionConfig] {
		return b.Action(primitives.ActionConfig{Name: name, Params: params})
	}

	patrol := b.While(b.Pressed("stop"),
		action("hasEnergy", map[string]any{"expr": "energy > 0"}),
		action("walk", map[string]any{"seconds": 0.5}),
		action("tire", map[string]any{"expr": "energy - 1", "set": "energy"}),
		b.Wait(0.2),
	)
	root := builder.Delay(0.25, b.Select(
		patrol,
		action("rest", map[string]any{"expr": "energy + 3", "set": "energy"}),
	))
	return primitives.TreeConfig{ID: id, Root: primitives.FromBehavior(root)}
}

// walk takes params.seconds of update time, tracked in the leaf's memory.
func walk(args core.ActionArgs) (behaviorx.Status, float64) {
	if _, ok := args.Event.Update(); !ok {
		return behaviorx.Running, 0
	}
	total := 1.0
	switch v := args.Action.Params["seconds"].(type) {
	case float64:
		total = v
	case int:
		total = float64(v)
	}
	elapsed := args.DT
	if v, ok := args.Memory.Get(); ok {
		elapsed += v.(float64)
	}
	if elapsed > total {
		return behaviorx.Success, elapsed - total
	}
	args.Memory.Set(elapsed)
	return behaviorx.Running, 0
}
