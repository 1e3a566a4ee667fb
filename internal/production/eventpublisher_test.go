package production

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/core"
	"github.com/comalice/behaviorx/internal/primitives"
)

func record(status behaviorx.Status, step uint64) core.StepRecord {
	return core.StepRecord{
		AgentID:   "agent-1",
		TreeID:    "patrol",
		Version:   "v1",
		Event:     primitives.EventConfig{Type: "update", DT: 0.5},
		Status:    status,
		Step:      step,
		Timestamp: time.Now(),
	}
}

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan core.StepRecord, 10)
	p := NewChannelPublisher(ch)

	want := record(behaviorx.Running, 1)
	require.NoError(t, p.Publish(context.Background(), want))

	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no record delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan core.StepRecord, 1)
	p := NewChannelPublisher(ch)
	ch <- core.StepRecord{} // Fill buffer

	assert.NoError(t, p.Publish(context.Background(), record(behaviorx.Running, 1)))
	assert.Len(t, ch, 1)
}

func TestChannelPublisher_CanceledWhileFull(t *testing.T) {
	ch := make(chan core.StepRecord, 1)
	p := NewChannelPublisher(ch)
	ch <- core.StepRecord{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, record(behaviorx.Running, 1)), context.Canceled)
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan core.StepRecord, 1)
	p := NewChannelPublisher(ch)

	require.NoError(t, p.Close())
	_, ok := <-ch
	assert.False(t, ok)
}

func TestLogPublisher_Levels(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	p := NewLogPublisher(zap.New(obs))

	require.NoError(t, p.Publish(context.Background(), record(behaviorx.Running, 1)))
	require.NoError(t, p.Publish(context.Background(), record(behaviorx.Success, 2)))

	entries := logs.FilterMessage("step").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "success", entries[1].ContextMap()["status"])
	assert.Equal(t, "update:0.5", entries[1].ContextMap()["event"])
}

type failingPublisher struct {
	err       error
	published int
}

func (f *failingPublisher) Publish(context.Context, core.StepRecord) error {
	f.published++
	return f.err
}

func (f *failingPublisher) Close() error { return f.err }

func TestMultiPublisher_TriesAll(t *testing.T) {
	errFirst := errors.New("first")
	a := &failingPublisher{err: errFirst}
	b := &failingPublisher{err: errors.New("second")}
	ch := make(chan core.StepRecord, 1)

	m := MultiPublisher{a, b, NewChannelPublisher(ch)}
	err := m.Publish(context.Background(), record(behaviorx.Running, 1))

	assert.ErrorIs(t, err, errFirst)
	assert.Equal(t, 1, a.published)
	assert.Equal(t, 1, b.published)
	assert.Len(t, ch, 1)
	assert.ErrorIs(t, m.Close(), errFirst)
}

func TestChannelPublisher_Integration_AgentSteps(t *testing.T) {
	ch := make(chan core.StepRecord, 10)
	ctx := context.Background()
	agent, err := core.NewAgent(ctx, patrolTree(),
		core.WithPublisher(NewChannelPublisher(ch)),
		core.WithActionRunner(behaviorx.ActionFunc[primitives.ActionConfig, any](
			func(args core.ActionArgs) (behaviorx.Status, float64) {
				return behaviorx.Success, args.DT
			})))
	require.NoError(t, err)

	agent.Step(ctx, behaviorx.UpdateEvent(1))
	agent.Step(ctx, behaviorx.PressEvent("stop"))

	first, second := <-ch, <-ch
	assert.Equal(t, uint64(1), first.Step)
	assert.Equal(t, behaviorx.Running, first.Status)
	assert.Equal(t, primitives.EventConfig{Type: "update", DT: 1}, first.Event)
	assert.Equal(t, behaviorx.Success, second.Status)
	assert.Equal(t, primitives.EventConfig{Type: "press", Button: "stop"}, second.Event)
	assert.Equal(t, agent.ID().String(), second.AgentID)
	assert.Equal(t, agent.Version(), second.Version)
}
