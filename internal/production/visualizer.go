package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/primitives"
)

// DefaultVisualizer renders trees as Graphviz DOT and JSON.
type DefaultVisualizer struct{}

// statusColors fills the root node according to the tree's status.
var statusColors = map[behaviorx.Status]string{
	behaviorx.Running: "orange",
	behaviorx.Success: "lightgreen",
	behaviorx.Failure: "lightcoral",
}

// ExportDOT generates Graphviz DOT source for the tree under root. Nodes are
// named by their path; edges from If and While are labeled with the role of
// the child.
func (v *DefaultVisualizer) ExportDOT(root primitives.NodeConfig, status behaviorx.Status) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph BehaviorTree {
  rankdir=TB;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	_ = root.Walk(func(path string, n *primitives.NodeConfig) error {
		style := ""
		if path == "root" {
			style = fmt.Sprintf(` style="rounded,filled" fillcolor=%s`, statusColors[status])
		}
		shape := ""
		if len(n.Children) > 0 || n.Condition != nil {
			shape = " shape=ellipse"
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s%s];\n", path, nodeLabel(n), shape, style)

		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			parent, role := path[:i], path[i+1:]
			label := ""
			switch role {
			case "condition", "success", "failure":
				label = fmt.Sprintf(" [label=%q]", role)
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", parent, path, label)
		}
		return nil
	})

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the tree definition to JSON.
func (v *DefaultVisualizer) ExportJSON(tree primitives.TreeConfig) ([]byte, error) {
	return json.MarshalIndent(tree, "", "  ")
}

func nodeLabel(n *primitives.NodeConfig) string {
	switch n.Type {
	case behaviorx.KindAction:
		if n.Action != nil {
			return "action\n" + n.Action.Name
		}
	case behaviorx.KindWaitForSignal:
		if n.Signal != nil {
			return n.Signal.Kind + ":" + n.Signal.Button
		}
	case behaviorx.KindWait:
		return fmt.Sprintf("wait %gs", n.Seconds)
	}
	return n.Type.String()
}
