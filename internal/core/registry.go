package core

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/behaviorx/internal/primitives"
)

// Registry manages versioned tree definitions.
type Registry interface {
	// Register stores tree under its computed version and returns it.
	Register(ctx context.Context, tree primitives.TreeConfig) (string, error)

	// Latest returns the most recently registered version of treeID.
	Latest(ctx context.Context, treeID string) (TreeVersion, error)

	// Version returns a specific version of treeID.
	Version(ctx context.Context, treeID, version string) (TreeVersion, error)

	// ListVersions returns versions for treeID, newest first.
	ListVersions(ctx context.Context, treeID string) ([]string, error)

	// ListTrees returns all tree IDs.
	ListTrees(ctx context.Context) ([]string, error)
}

var (
	ErrNotFound = errors.New("version or tree not found")
	ErrExists   = errors.New("version already exists")
)

// TreeVersion annotates a definition with its registered version.
type TreeVersion struct {
	Tree      primitives.TreeConfig `json:"tree" yaml:"tree"`
	Version   string                `json:"version" yaml:"version"`
	Timestamp time.Time             `json:"timestamp" yaml:"timestamp"`
}
