package realtime

import (
	"sort"

	"github.com/comalice/behaviorx"
)

// EventWithMeta adds sequencing metadata for deterministic ordering
type EventWithMeta struct {
	Event       behaviorx.Event
	SequenceNum uint64
	Priority    int
}

// sortEvents orders events deterministically
func sortEvents(events []EventWithMeta) {
	// Stable sort preserves insertion order for equal priorities
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Priority != events[j].Priority {
			return events[i].Priority > events[j].Priority
		}
		return events[i].SequenceNum < events[j].SequenceNum
	})
}
