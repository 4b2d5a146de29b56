// Package watch implements the registry of watched tokens.
package watch

import (
	"sync"

	"solana-swap-watch/internal/domain"
)

// Registry maps token IDs to their active flag, preserving insertion order.
// Every method is a single critical section; readers get copies.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	active map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		active: make(map[string]bool),
	}
}

// Add watches tokenID with active=true.
// Re-adding an existing token re-enables it in place.
func (r *Registry) Add(tokenID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.active[tokenID]; !exists {
		r.order = append(r.order, tokenID)
	}
	r.active[tokenID] = true
}

// Remove deletes tokenID. Returns false if it was not watched.
func (r *Registry) Remove(tokenID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.active[tokenID]; !exists {
		return false
	}

	delete(r.active, tokenID)
	for i, id := range r.order {
		if id == tokenID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle flips the active flag of tokenID and returns the new value.
// ok is false if the token is not watched.
func (r *Registry) Toggle(tokenID string) (active bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.active[tokenID]
	if !exists {
		return false, false
	}

	r.active[tokenID] = !current
	return !current, true
}

// PauseAll deactivates every entry.
func (r *Registry) PauseAll() {
	r.setAll(false)
}

// ResumeAll activates every entry.
func (r *Registry) ResumeAll() {
	r.setAll(true)
}

func (r *Registry) setAll(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.active {
		r.active[id] = active
	}
}

// Reset removes all entries.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.active = make(map[string]bool)
}

// List returns all entries in insertion order.
func (r *Registry) List() []domain.WatchEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.WatchEntry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, domain.WatchEntry{TokenID: id, Active: r.active[id]})
	}
	return entries
}

// Lookup returns the entry for tokenID and whether it exists.
func (r *Registry) Lookup(tokenID string) (domain.WatchEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active, exists := r.active[tokenID]
	if !exists {
		return domain.WatchEntry{}, false
	}
	return domain.WatchEntry{TokenID: tokenID, Active: active}, true
}

// IsActive reports whether tokenID is watched and active.
// Absent and paused tokens both return false.
func (r *Registry) IsActive(tokenID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active[tokenID]
}

// ActiveTokens returns a snapshot of active token IDs in insertion order.
func (r *Registry) ActiveTokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if r.active[id] {
			tokens = append(tokens, id)
		}
	}
	return tokens
}

// Len returns the number of watched tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
