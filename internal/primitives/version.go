package primitives

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ComputeVersion computes a deterministic version for a TreeConfig.
// Priority: user-provided config.Version, else the xxhash64 of the config's
// JSON encoding. Map keys are sorted by encoding/json, so equal definitions
// always hash alike.
func ComputeVersion(config *TreeConfig) string {
	if config.Version != "" {
		return config.Version
	}

	data, err := json.Marshal(config)
	if err != nil {
		// Only reachable for an invalid node type.
		return fmt.Sprintf("invalid-%016x", xxhash.Sum64String(config.ID))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
