package primitives

import (
	"fmt"
	"sort"
	"strings"
)

// TreeConfig is a named, versioned behavior tree definition.
type TreeConfig struct {
	Version string     `json:"version,omitempty" yaml:"version,omitempty"`
	ID      string     `json:"id" yaml:"id"`
	Root    NodeConfig `json:"root" yaml:"root"`
}

// ValidateID checks that id is usable as a tree ID. IDs name files in
// persister directories, so they must not contain path separators or be a
// relative path element.
func ValidateID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: tree ID is required", ErrInvalidTree)
	case id == "." || id == ".." || strings.ContainsAny(id, `/\`):
		return fmt.Errorf("%w: tree ID %q is not a plain name", ErrInvalidTree, id)
	}
	return nil
}

// Validate validates the entire tree definition:
// - ID accepted by ValidateID
// - Every node has the fields its type requires and no others
func (t *TreeConfig) Validate() error {
	if err := ValidateID(t.ID); err != nil {
		return err
	}
	if err := t.Root.Validate(); err != nil {
		return fmt.Errorf("tree %q: %w", t.ID, err)
	}
	return nil
}

// Actions returns the distinct action names used by the tree, sorted.
func (t *TreeConfig) Actions() []string {
	seen := make(map[string]bool)
	_ = t.Root.Walk(func(_ string, n *NodeConfig) error {
		if n.Action != nil && n.Action.Name != "" {
			seen[n.Action.Name] = true
		}
		return nil
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindNode resolves a node by the path notation used in validation errors,
// e.g. "root.children[1].condition".
func (t *TreeConfig) FindNode(path string) (*NodeConfig, error) {
	segments := strings.Split(path, ".")
	if segments[0] != "root" {
		return nil, fmt.Errorf("path %q must start at root", path)
	}
	current := &t.Root
	for i, seg := range segments[1:] {
		var next *NodeConfig
		switch seg {
		case "condition":
			next = current.Condition
		case "success":
			next = current.Success
		case "failure":
			next = current.Failure
		default:
			var idx int
			if _, err := fmt.Sscanf(seg, "children[%d]", &idx); err == nil && idx >= 0 && idx < len(current.Children) {
				next = &current.Children[idx]
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%q not found in %q", seg, strings.Join(segments[:i+1], "."))
		}
		current = next
	}
	return current, nil
}

// Clone returns a deep copy of t.
func (t TreeConfig) Clone() TreeConfig {
	out := t
	out.Root = t.Root.Clone()
	return out
}
