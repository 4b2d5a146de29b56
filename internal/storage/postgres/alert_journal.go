package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

// AlertJournal implements storage.AlertJournal using PostgreSQL.
type AlertJournal struct {
	pool *Pool
}

// NewAlertJournal creates a new AlertJournal.
func NewAlertJournal(pool *Pool) *AlertJournal {
	return &AlertJournal{pool: pool}
}

// Compile-time interface check.
var _ storage.AlertJournal = (*AlertJournal)(nil)

// Append records a delivery attempt. Returns ErrDuplicateKey if (alert_id, sink) exists.
func (j *AlertJournal) Append(ctx context.Context, r *domain.AlertRecord) error {
	if r == nil || r.AlertID == "" || r.Sink == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO alert_journal (
			alert_id, sink, kind, token_id, text,
			delivered, error, created_at, sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := j.pool.Exec(ctx, query,
		r.AlertID, r.Sink, string(r.Kind), r.TokenID, r.Text,
		r.Delivered, r.Error, r.CreatedAt, r.SentAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert alert record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *AlertJournal) Recent(ctx context.Context, limit int) ([]*domain.AlertRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT alert_id, sink, kind, token_id, text,
		       delivered, error, created_at, sent_at
		FROM alert_journal
		ORDER BY sent_at DESC, alert_id
		LIMIT $1
	`

	rows, err := j.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query alert journal: %w", err)
	}
	defer rows.Close()

	return scanAlertRecords(rows)
}

// CountByToken returns the number of delivered alerts per token.
func (j *AlertJournal) CountByToken(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT token_id, COUNT(*)
		FROM alert_journal
		WHERE delivered
		GROUP BY token_id
	`

	rows, err := j.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count alerts by token: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			token string
			n     int64
		)
		if err := rows.Scan(&token, &n); err != nil {
			return nil, fmt.Errorf("scan token count: %w", err)
		}
		counts[token] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token counts: %w", err)
	}
	return counts, nil
}

// scanAlertRecords scans multiple rows into AlertRecord slice.
func scanAlertRecords(rows pgx.Rows) ([]*domain.AlertRecord, error) {
	var result []*domain.AlertRecord

	for rows.Next() {
		var (
			r    domain.AlertRecord
			kind string
		)
		err := rows.Scan(
			&r.AlertID, &r.Sink, &kind, &r.TokenID, &r.Text,
			&r.Delivered, &r.Error, &r.CreatedAt, &r.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert record: %w", err)
		}
		r.Kind = domain.AlertKind(kind)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert records: %w", err)
	}

	return result, nil
}
