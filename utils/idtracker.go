package utils

import "sync"

// IDTracker tracks seen review ids to drop duplicate cards
type IDTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewIDTracker creates a new tracker
func NewIDTracker() *IDTracker {
	return &IDTracker{seen: make(map[string]struct{})}
}

// Add returns true if the id is new, false if duplicate. Empty ids are never tracked.
func (t *IDTracker) Add(id string) bool {
	if id == "" {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.seen[id]; exists {
		return false
	}
	t.seen[id] = struct{}{}
	return true
}

// Count returns the number of tracked ids
func (t *IDTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
