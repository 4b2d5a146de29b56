package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

func createTestAlertRecord(alertID, sink, token string, sentAt int64, delivered bool) *domain.AlertRecord {
	r := &domain.AlertRecord{
		AlertID:   alertID,
		Kind:      domain.AlertKindSwap,
		TokenID:   token,
		Text:      "🔍 Swap detected on " + token + "\nAmount: 1.00 SOL",
		Sink:      sink,
		Delivered: delivered,
		CreatedAt: sentAt - 5,
		SentAt:    sentAt,
	}
	if !delivered {
		r.Error = "telegram send: timeout"
	}
	return r
}

func TestAlertJournal_AppendAndRecent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	journal := NewAlertJournal(pool)

	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-1", "telegram", "tokA", 1000, true)))
	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-2", "telegram", "tokB", 2000, false)))
	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-3", "telegram", "tokA", 3000, true)))

	got, err := journal.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "a-3", got[0].AlertID)
	assert.Equal(t, "a-2", got[1].AlertID)
	assert.Equal(t, domain.AlertKindSwap, got[0].Kind)
	assert.False(t, got[1].Delivered)
	assert.Equal(t, "telegram send: timeout", got[1].Error)
	assert.Contains(t, got[0].Text, "\nAmount: 1.00 SOL")
}

func TestAlertJournal_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	journal := NewAlertJournal(pool)

	rec := createTestAlertRecord("a-1", "telegram", "tokA", 1000, true)
	require.NoError(t, journal.Append(ctx, rec))

	err := journal.Append(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same alert on another sink is a separate row.
	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-1", "websocket", "tokA", 1000, true)))
}

func TestAlertJournal_CountByToken(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	journal := NewAlertJournal(pool)

	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-1", "telegram", "tokA", 1000, true)))
	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-2", "telegram", "tokA", 1001, true)))
	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-3", "telegram", "tokA", 1002, false)))
	require.NoError(t, journal.Append(ctx, createTestAlertRecord("a-4", "telegram", "tokB", 1003, true)))

	counts, err := journal.CountByToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"tokA": 2, "tokB": 1}, counts)
}

func TestAlertJournal_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	journal := NewAlertJournal(pool)

	assert.ErrorIs(t, journal.Append(ctx, nil), storage.ErrInvalidInput)

	_, err := journal.Recent(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
