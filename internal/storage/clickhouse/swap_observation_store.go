package clickhouse

import (
	"context"
	"fmt"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

// SwapObservationStore implements storage.SwapObservationStore using ClickHouse.
type SwapObservationStore struct {
	conn *Conn
}

// NewSwapObservationStore creates a new SwapObservationStore.
func NewSwapObservationStore(conn *Conn) *SwapObservationStore {
	return &SwapObservationStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SwapObservationStore = (*SwapObservationStore)(nil)

// InsertBulk adds multiple observations. MergeTree does not enforce
// uniqueness, so observations whose non-empty signature is already stored,
// or repeated earlier in the batch, are skipped. Stored signatures are
// looked up with a single query.
func (s *SwapObservationStore) InsertBulk(ctx context.Context, obs []*domain.SwapObservation) error {
	if len(obs) == 0 {
		return nil
	}

	var sigs []string
	for _, o := range obs {
		if o == nil || o.TokenID == "" {
			return storage.ErrInvalidInput
		}
		if o.Signature != "" {
			sigs = append(sigs, o.Signature)
		}
	}

	seen, err := s.storedSignatures(ctx, sigs)
	if err != nil {
		return fmt.Errorf("check existing: %w", err)
	}

	fresh := make([]*domain.SwapObservation, 0, len(obs))
	for _, o := range obs {
		if o.Signature != "" {
			if _, dup := seen[o.Signature]; dup {
				continue
			}
			seen[o.Signature] = struct{}{}
		}
		fresh = append(fresh, o)
	}
	if len(fresh) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO swap_observations (
			token_id, signature, slot, amount_sol, matched, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, o := range fresh {
		var matched uint8
		if o.Matched {
			matched = 1
		}
		err = batch.Append(
			o.TokenID, o.Signature, uint64(o.Slot), o.AmountSOL, matched, uint64(o.ObservedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// SummaryByToken aggregates observations per token, ordered by token ASC.
func (s *SwapObservationStore) SummaryByToken(ctx context.Context) ([]*domain.TokenSummary, error) {
	query := `
		SELECT
			token_id,
			count() AS swaps,
			sum(matched) AS alerts,
			sum(amount_sol) AS total_sol,
			max(observed_at) AS last_observed
		FROM swap_observations
		GROUP BY token_id
		ORDER BY token_id ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	return scanTokenSummaries(rows)
}

// storedSignatures returns which of sigs are already stored.
func (s *SwapObservationStore) storedSignatures(ctx context.Context, sigs []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(sigs))
	if len(sigs) == 0 {
		return found, nil
	}

	rows, err := s.conn.Query(ctx, `SELECT DISTINCT signature FROM swap_observations WHERE signature IN (?)`, sigs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sig string
		if err := rows.Scan(&sig); err != nil {
			return nil, err
		}
		found[sig] = struct{}{}
	}
	return found, rows.Err()
}

// chRows is the subset of driver.Rows used for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanTokenSummaries(rows chRows) ([]*domain.TokenSummary, error) {
	var result []*domain.TokenSummary

	for rows.Next() {
		var (
			token        string
			swaps        uint64
			alerts       uint64
			totalSOL     float64
			lastObserved uint64
		)
		if err := rows.Scan(&token, &swaps, &alerts, &totalSOL, &lastObserved); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		result = append(result, &domain.TokenSummary{
			TokenID:      token,
			Swaps:        int64(swaps),
			Alerts:       int64(alerts),
			TotalSOL:     totalSOL,
			LastObserved: int64(lastObserved),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return result, nil
}
