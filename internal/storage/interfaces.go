package storage

import (
	"context"

	"solana-swap-watch/internal/domain"
)

// AlertJournal provides access to the alert_journal storage.
// Each row is one delivery attempt of one alert to one sink.
type AlertJournal interface {
	// Append records a delivery attempt. Returns ErrDuplicateKey if
	// (alert_id, sink) already exists.
	Append(ctx context.Context, r *domain.AlertRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.AlertRecord, error)

	// CountByToken returns the number of delivered alerts per token.
	CountByToken(ctx context.Context) (map[string]int64, error)
}

// SwapObservationStore provides access to swap_observations storage.
type SwapObservationStore interface {
	// InsertBulk adds multiple observations. Observations with a non-empty
	// signature that is already stored, or repeated within obs, are skipped
	// so redelivered webhook batches are idempotent.
	InsertBulk(ctx context.Context, obs []*domain.SwapObservation) error

	// SummaryByToken aggregates observations per token, ordered by token ASC.
	SummaryByToken(ctx context.Context) ([]*domain.TokenSummary, error)
}

// SessionStore keeps per-chat dialog state for the control bot.
type SessionStore interface {
	// Get returns the dialog state for chatID, or the idle state if none.
	Get(ctx context.Context, chatID int64) (domain.DialogState, error)

	// Set stores the dialog state for chatID.
	Set(ctx context.Context, chatID int64, state domain.DialogState) error

	// Clear resets chatID to the idle state.
	Clear(ctx context.Context, chatID int64) error
}
