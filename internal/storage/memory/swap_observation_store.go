package memory

import (
	"context"
	"sort"
	"sync"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

// SwapObservationStore is an in-memory implementation of storage.SwapObservationStore.
type SwapObservationStore struct {
	mu         sync.RWMutex
	data       []*domain.SwapObservation
	signatures map[string]struct{} // non-empty signatures seen so far
}

// NewSwapObservationStore creates a new in-memory observation store.
func NewSwapObservationStore() *SwapObservationStore {
	return &SwapObservationStore{
		signatures: make(map[string]struct{}),
	}
}

var _ storage.SwapObservationStore = (*SwapObservationStore)(nil)

// InsertBulk adds multiple observations atomically. Observations whose
// non-empty signature is already stored, or repeated earlier in the batch,
// are skipped.
func (s *SwapObservationStore) InsertBulk(_ context.Context, obs []*domain.SwapObservation) error {
	if len(obs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range obs {
		if o == nil || o.TokenID == "" {
			return storage.ErrInvalidInput
		}
	}

	for _, o := range obs {
		if o.Signature != "" {
			if _, exists := s.signatures[o.Signature]; exists {
				continue
			}
			s.signatures[o.Signature] = struct{}{}
		}
		copy := *o
		s.data = append(s.data, &copy)
	}
	return nil
}

// SummaryByToken aggregates observations per token, ordered by token ASC.
func (s *SwapObservationStore) SummaryByToken(_ context.Context) ([]*domain.TokenSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byToken := make(map[string]*domain.TokenSummary)
	for _, o := range s.data {
		sum, ok := byToken[o.TokenID]
		if !ok {
			sum = &domain.TokenSummary{TokenID: o.TokenID}
			byToken[o.TokenID] = sum
		}
		sum.Swaps++
		if o.Matched {
			sum.Alerts++
		}
		sum.TotalSOL += o.AmountSOL
		if o.ObservedAt > sum.LastObserved {
			sum.LastObserved = o.ObservedAt
		}
	}

	result := make([]*domain.TokenSummary, 0, len(byToken))
	for _, sum := range byToken {
		result = append(result, sum)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TokenID < result[j].TokenID
	})
	return result, nil
}
