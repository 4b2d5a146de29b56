package memory

import (
	"context"
	"sync"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

// SessionStore is an in-memory implementation of storage.SessionStore.
type SessionStore struct {
	mu    sync.RWMutex
	state map[int64]domain.DialogState // keyed by chat ID
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		state: make(map[int64]domain.DialogState),
	}
}

var _ storage.SessionStore = (*SessionStore)(nil)

// Get returns the dialog state for chatID, or the idle state if none.
func (s *SessionStore) Get(_ context.Context, chatID int64) (domain.DialogState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.state[chatID]
	if !ok {
		return domain.IdleDialog(), nil
	}
	return st, nil
}

// Set stores the dialog state for chatID.
func (s *SessionStore) Set(_ context.Context, chatID int64, state domain.DialogState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.Step == domain.DialogIdle {
		delete(s.state, chatID)
		return nil
	}
	s.state[chatID] = state
	return nil
}

// Clear resets chatID to the idle state.
func (s *SessionStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state, chatID)
	return nil
}
