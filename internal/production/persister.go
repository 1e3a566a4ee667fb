// Package production provides production integrations: persistence, step
// publishing, visualization and a tree registry.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/behaviorx/internal/primitives"
)

// fileStore keeps one file per tree ID in dir.
type fileStore struct {
	dir       string
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func newFileStore(dir, ext string, marshal func(any) ([]byte, error), unmarshal func([]byte, any) error) (fileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fileStore{}, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return fileStore{dir: dir, ext: ext, marshal: marshal, unmarshal: unmarshal}, nil
}

func (s fileStore) path(treeID string) string {
	return filepath.Join(s.dir, treeID+s.ext)
}

func (s fileStore) save(ctx context.Context, tree primitives.TreeConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tree.Validate(); err != nil {
		return err
	}
	data, err := s.marshal(tree)
	if err != nil {
		return fmt.Errorf("%s marshal: %w", s.ext[1:], err)
	}
	fn := s.path(tree.ID)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (s fileStore) load(ctx context.Context, treeID string) (primitives.TreeConfig, error) {
	if err := ctx.Err(); err != nil {
		return primitives.TreeConfig{}, err
	}
	if err := primitives.ValidateID(treeID); err != nil {
		return primitives.TreeConfig{}, err
	}
	fn := s.path(treeID)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return primitives.TreeConfig{}, fmt.Errorf("tree %q: %w", treeID, os.ErrNotExist)
		}
		return primitives.TreeConfig{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var tree primitives.TreeConfig
	if err := s.unmarshal(data, &tree); err != nil {
		return primitives.TreeConfig{}, fmt.Errorf("%s unmarshal: %w", s.ext[1:], err)
	}
	if tree.ID == "" {
		tree.ID = treeID
	}
	if err := tree.Validate(); err != nil {
		return primitives.TreeConfig{}, fmt.Errorf("config validation after load: %w", err)
	}
	return tree, nil
}

// JSONPersister stores tree definitions as indented JSON files.
type JSONPersister struct {
	store fileStore
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	store, err := newFileStore(dir, ".json", func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}, json.Unmarshal)
	if err != nil {
		return nil, err
	}
	return &JSONPersister{store: store}, nil
}

func (p *JSONPersister) Save(ctx context.Context, tree primitives.TreeConfig) error {
	return p.store.save(ctx, tree)
}

// Load reads and validates a definition. A missing file yields an error
// wrapping os.ErrNotExist.
func (p *JSONPersister) Load(ctx context.Context, treeID string) (primitives.TreeConfig, error) {
	return p.store.load(ctx, treeID)
}

// YAMLPersister stores tree definitions as YAML files, the format trees are
// usually written in by hand.
type YAMLPersister struct {
	store fileStore
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	store, err := newFileStore(dir, ".yaml", yaml.Marshal, yaml.Unmarshal)
	if err != nil {
		return nil, err
	}
	return &YAMLPersister{store: store}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, tree primitives.TreeConfig) error {
	return p.store.save(ctx, tree)
}

func (p *YAMLPersister) Load(ctx context.Context, treeID string) (primitives.TreeConfig, error) {
	return p.store.load(ctx, treeID)
}
