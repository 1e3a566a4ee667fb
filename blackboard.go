package behaviorx

import "sync"

// Blackboard is thread-safe storage shared by the actions of one tree.
// The tree itself never reads it; action runners do.
type Blackboard struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewBlackboard creates an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{
		data: make(map[string]any),
	}
}

// Get retrieves a value by key. Returns nil if the key does not exist.
func (b *Blackboard) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data[key]
}

// Lookup retrieves a value by key and reports whether it exists.
func (b *Blackboard) Lookup(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok
}

// Set stores a value by key.
func (b *Blackboard) Set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		b.data = make(map[string]any)
	}
	b.data[key] = value
}

// Delete removes a key from the blackboard.
func (b *Blackboard) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}

// GetAll returns a snapshot copy of all data. Modifying the returned map does
// not affect the blackboard.
func (b *Blackboard) GetAll() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := make(map[string]any, len(b.data))
	for k, v := range b.data {
		snapshot[k] = v
	}
	return snapshot
}

// LoadAll atomically replaces all data in the blackboard.
func (b *Blackboard) LoadAll(data map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
}
