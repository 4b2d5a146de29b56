package memory

import (
	"context"
	"sort"
	"sync"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

// AlertJournal is an in-memory implementation of storage.AlertJournal.
type AlertJournal struct {
	mu   sync.RWMutex
	rows []*domain.AlertRecord   // in append order
	keys map[journalKey]struct{} // (alert_id, sink)
}

type journalKey struct {
	alertID string
	sink    string
}

// NewAlertJournal creates a new in-memory alert journal.
func NewAlertJournal() *AlertJournal {
	return &AlertJournal{
		keys: make(map[journalKey]struct{}),
	}
}

var _ storage.AlertJournal = (*AlertJournal)(nil)

// Append records a delivery attempt. Returns ErrDuplicateKey if (alert_id, sink) exists.
func (j *AlertJournal) Append(_ context.Context, r *domain.AlertRecord) error {
	if r == nil || r.AlertID == "" || r.Sink == "" {
		return storage.ErrInvalidInput
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	key := journalKey{alertID: r.AlertID, sink: r.Sink}
	if _, exists := j.keys[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	j.rows = append(j.rows, &copy)
	j.keys[key] = struct{}{}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *AlertJournal) Recent(_ context.Context, limit int) ([]*domain.AlertRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make([]*domain.AlertRecord, 0, len(j.rows))
	for i := len(j.rows) - 1; i >= 0; i-- {
		copy := *j.rows[i]
		result = append(result, &copy)
	}

	// Append order is newest-last already; the stable sort only fixes
	// rows written with out-of-order SentAt.
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].SentAt > result[b].SentAt
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountByToken returns the number of delivered alerts per token.
func (j *AlertJournal) CountByToken(_ context.Context) (map[string]int64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	counts := make(map[string]int64)
	for _, r := range j.rows {
		if r.Delivered {
			counts[r.TokenID]++
		}
	}
	return counts, nil
}
