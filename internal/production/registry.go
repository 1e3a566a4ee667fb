package production

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/comalice/behaviorx/internal/core"
	"github.com/comalice/behaviorx/internal/primitives"
)

// MemoryRegistry is an in-process core.Registry. Versions are kept in
// registration order per tree. Definitions are copied on the way in and out.
type MemoryRegistry struct {
	mu    sync.RWMutex
	trees map[string][]core.TreeVersion
	now   func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		trees: make(map[string][]core.TreeVersion),
		now:   time.Now,
	}
}

// Register validates tree and stores it under primitives.ComputeVersion.
// Registering a version twice returns the version and an error wrapping
// core.ErrExists.
func (r *MemoryRegistry) Register(ctx context.Context, tree primitives.TreeConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := tree.Validate(); err != nil {
		return "", err
	}
	version := primitives.ComputeVersion(&tree)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.trees[tree.ID] {
		if v.Version == version {
			return version, fmt.Errorf("tree %q version %s: %w", tree.ID, version, core.ErrExists)
		}
	}
	r.trees[tree.ID] = append(r.trees[tree.ID], core.TreeVersion{
		Tree:      tree.Clone(),
		Version:   version,
		Timestamp: r.now(),
	})
	return version, nil
}

func (r *MemoryRegistry) Latest(ctx context.Context, treeID string) (core.TreeVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.trees[treeID]
	if len(versions) == 0 {
		return core.TreeVersion{}, fmt.Errorf("tree %q: %w", treeID, core.ErrNotFound)
	}
	return clone(versions[len(versions)-1]), nil
}

func (r *MemoryRegistry) Version(ctx context.Context, treeID, version string) (core.TreeVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.trees[treeID] {
		if v.Version == version {
			return clone(v), nil
		}
	}
	return core.TreeVersion{}, fmt.Errorf("tree %q version %s: %w", treeID, version, core.ErrNotFound)
}

// ListVersions returns the versions of treeID, newest first.
func (r *MemoryRegistry) ListVersions(ctx context.Context, treeID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.trees[treeID]
	if len(versions) == 0 {
		return nil, fmt.Errorf("tree %q: %w", treeID, core.ErrNotFound)
	}
	out := make([]string, len(versions))
	for i, v := range versions {
		out[len(versions)-1-i] = v.Version
	}
	return out, nil
}

// ListTrees returns all tree IDs, sorted.
func (r *MemoryRegistry) ListTrees(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.trees))
	for id := range r.trees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(v core.TreeVersion) core.TreeVersion {
	v.Tree = v.Tree.Clone()
	return v
}
