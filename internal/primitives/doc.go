// Package primitives provides the serializable definitions of behavior trees.
//
// A TreeConfig is the document form of a behaviorx.Behavior: it can be
// written by hand in YAML or JSON, validated with path-bearing errors, and
// built into a Behavior whose action payloads are ActionConfig values.
// FromBehavior goes the other way, so trees assembled in code can be
// persisted and visualized.
//
// Core invariants:
//   - A TreeConfig that validates always builds
//   - Build and FromBehavior round-trip
//   - ComputeVersion is deterministic for equal definitions
package primitives
