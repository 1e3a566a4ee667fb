package production

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/core"
	"github.com/comalice/behaviorx/internal/primitives"
)

var persisters = []struct {
	name string
	ext  string
	new  func(dir string) (core.Persister, error)
}{
	{"json", ".json", func(dir string) (core.Persister, error) { return NewJSONPersister(dir) }},
	{"yaml", ".yaml", func(dir string) (core.Persister, error) { return NewYAMLPersister(dir) }},
}

func TestPersister_RoundTrip(t *testing.T) {
	for _, tc := range persisters {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			p, err := tc.new(dir)
			require.NoError(t, err)

			tree := patrolTree()
			require.NoError(t, p.Save(context.Background(), tree))
			assert.FileExists(t, filepath.Join(dir, "patrol"+tc.ext))

			loaded, err := p.Load(context.Background(), "patrol")
			require.NoError(t, err)
			assert.Equal(t, tree, loaded)
			assert.Equal(t, primitives.ComputeVersion(&tree), primitives.ComputeVersion(&loaded))
		})
	}
}

func TestPersister_LoadNonExistent(t *testing.T) {
	for _, tc := range persisters {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.new(t.TempDir())
			require.NoError(t, err)

			_, err = p.Load(context.Background(), "nonexistent")
			assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
		})
	}
}

func TestPersister_SaveRejectsInvalidTree(t *testing.T) {
	for _, tc := range persisters {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.new(t.TempDir())
			require.NoError(t, err)

			tree := primitives.TreeConfig{ID: "empty", Root: primitives.NodeConfig{Type: behaviorx.KindSequence}}
			err = p.Save(context.Background(), tree)
			assert.ErrorIs(t, err, primitives.ErrInvalidTree)
		})
	}
}

func TestPersister_RejectsEscapingIDs(t *testing.T) {
	for _, tc := range persisters {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "trees")
			p, err := tc.new(dir)
			require.NoError(t, err)

			tree := patrolTree()
			tree.ID = "../outside"
			err = p.Save(context.Background(), tree)
			assert.ErrorIs(t, err, primitives.ErrInvalidTree)
			assert.NoFileExists(t, filepath.Join(root, "outside"+tc.ext))

			require.NoError(t, os.WriteFile(filepath.Join(root, "outside"+tc.ext), []byte("id: outside\n"), 0o644))
			_, err = p.Load(context.Background(), "../outside")
			assert.ErrorIs(t, err, primitives.ErrInvalidTree)
		})
	}
}

func TestPersister_LoadValidates(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	require.NoError(t, err)

	bad := "id: broken\nroot:\n  type: if\n  condition:\n    type: waitForever\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(bad), 0o644))

	_, err = p.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, primitives.ErrInvalidTree)
}

func TestPersister_LoadFillsMissingID(t *testing.T) {
	dir := t.TempDir()
	p, err := NewYAMLPersister(dir)
	require.NoError(t, err)

	doc := "root:\n  type: wait\n  seconds: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "idle.yaml"), []byte(doc), 0o644))

	tree, err := p.Load(context.Background(), "idle")
	require.NoError(t, err)
	assert.Equal(t, "idle", tree.ID)
	assert.Equal(t, 2.0, tree.Root.Seconds)
}

func TestPersister_Integration_AgentSave(t *testing.T) {
	p, err := NewJSONPersister(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	agent, err := core.NewAgent(ctx, patrolTree(), core.WithPersister(p))
	require.NoError(t, err)
	require.NoError(t, agent.Save(ctx))

	loaded, err := p.Load(ctx, "patrol")
	require.NoError(t, err)

	// A restored agent runs the same definition.
	restored, err := core.NewAgent(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, agent.Version(), restored.Version())
}
