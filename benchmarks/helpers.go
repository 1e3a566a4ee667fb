// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/primitives"
)

var nodes behaviorx.Builder[primitives.ActionConfig]

// Instant succeeds immediately and passes all of its time on.
var Instant = behaviorx.ActionFunc[primitives.ActionConfig, any](func(args behaviorx.ActionArgs[primitives.ActionConfig, any]) (behaviorx.Status, float64) {
	return behaviorx.Success, args.DT
})

func tick(i int) behaviorx.Behavior[primitives.ActionConfig] {
	return nodes.Action(primitives.ActionConfig{Name: fmt.Sprintf("a%d", i)})
}

// GenWideSequence creates a loop over a sequence of n instant actions
// followed by a short wait, so every update runs all n actions.
func GenWideSequence(n int) behaviorx.Behavior[primitives.ActionConfig] {
	if n < 1 {
		n = 1
	}
	body := make([]behaviorx.Behavior[primitives.ActionConfig], 0, n+1)
	for i := 0; i < n; i++ {
		body = append(body, tick(i))
	}
	body = append(body, nodes.Wait(0.001))
	return nodes.While(nodes.WaitForever(), nodes.Sequence(body...))
}

// GenDeepTree nests depth sequences around a looping instant action.
func GenDeepTree(depth int) behaviorx.Behavior[primitives.ActionConfig] {
	if depth < 1 {
		depth = 1
	}
	tree := nodes.While(nodes.WaitForever(), tick(0), nodes.Wait(0.001))
	for i := 1; i < depth; i++ {
		tree = nodes.Sequence(tree)
	}
	return tree
}

// GenParallel runs n looping branches side by side.
func GenParallel(n int) behaviorx.Behavior[primitives.ActionConfig] {
	if n < 1 {
		n = 1
	}
	branches := make([]behaviorx.Behavior[primitives.ActionConfig], n)
	for i := range branches {
		branches[i] = nodes.While(nodes.WaitForever(), tick(i), nodes.Wait(0.001))
	}
	return nodes.WhenAll(branches...)
}

// GenTreeYAML generates the YAML definition of a wide sequence of n actions.
func GenTreeYAML(n int) []byte {
	tree := primitives.TreeConfig{
		ID:   fmt.Sprintf("wide_%d", n),
		Root: primitives.FromBehavior(GenWideSequence(n)),
	}
	data, err := yaml.Marshal(tree)
	if err != nil {
		panic(err)
	}
	return data
}
