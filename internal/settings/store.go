package settings

import (
	"math"
	"strconv"
	"strings"
	"sync"
)

// Store is the process-wide settings holder.
// Each Get/Set is its own critical section.
type Store struct {
	mu     sync.RWMutex
	values Values
}

// NewStore creates a store seeded with initial values.
func NewStore(initial Values) *Store {
	return &Store{values: initial}
}

// Get returns the current value of name. Panics on an unknown name.
func (s *Store) Get(name Name) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values.Get(name)
}

// Snapshot returns a copy of all current values.
func (s *Store) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values
}

// Set parses raw as a decimal number and stores it under name.
// Returns the stored value, or a *ParseError leaving the old value in place.
func (s *Store) Set(name Name, raw string) (float64, error) {
	v, err := parseValue(raw)
	if err != nil {
		return 0, &ParseError{Name: name, Input: raw, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	*s.values.field(name) = v
	return v, nil
}

func parseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	if v < 0 {
		return 0, ErrNegative
	}
	return v, nil
}
