package production

import (
	"github.com/comalice/behaviorx"
	"github.com/comalice/behaviorx/internal/primitives"
)

func patrolTree() primitives.TreeConfig {
	return primitives.TreeConfig{
		ID: "patrol",
		Root: primitives.NodeConfig{
			Type: behaviorx.KindWhile,
			Condition: &primitives.NodeConfig{
				Type:   behaviorx.KindWaitForSignal,
				Signal: &primitives.SignalConfig{Kind: "press", Button: "stop"},
			},
			Children: []primitives.NodeConfig{
				{Type: behaviorx.KindAction, Action: &primitives.ActionConfig{Name: "walk", Params: map[string]any{"to": "gate"}}},
				{Type: behaviorx.KindWait, Seconds: 1.5},
			},
		},
	}
}
