package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

func TestSwapObservationStore_SummaryByToken(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapObservationStore(conn)
	ctx := context.Background()

	obs := []*domain.SwapObservation{
		{TokenID: "tokB", Signature: "sig-1", Slot: 10, AmountSOL: 1.5, Matched: true, ObservedAt: 1000},
		{TokenID: "tokA", Signature: "sig-2", Slot: 11, AmountSOL: 0.1, Matched: false, ObservedAt: 2000},
		{TokenID: "tokB", Signature: "sig-3", Slot: 12, AmountSOL: 2.5, Matched: true, ObservedAt: 3000},
	}
	require.NoError(t, store.InsertBulk(ctx, obs))

	sums, err := store.SummaryByToken(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)

	assert.Equal(t, "tokA", sums[0].TokenID)
	assert.Equal(t, int64(1), sums[0].Swaps)
	assert.Equal(t, int64(0), sums[0].Alerts)

	assert.Equal(t, "tokB", sums[1].TokenID)
	assert.Equal(t, int64(2), sums[1].Swaps)
	assert.Equal(t, int64(2), sums[1].Alerts)
	assert.InDelta(t, 4.0, sums[1].TotalSOL, 1e-9)
	assert.Equal(t, int64(3000), sums[1].LastObserved)
}

func TestSwapObservationStore_DuplicateSignature(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapObservationStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.SwapObservation{
		{TokenID: "tokA", Signature: "sig-1", AmountSOL: 1},
	}))

	// A redelivered batch keeps its new rows and drops the stored one.
	require.NoError(t, store.InsertBulk(ctx, []*domain.SwapObservation{
		{TokenID: "tokA", Signature: "sig-2", AmountSOL: 1},
		{TokenID: "tokA", Signature: "sig-1", AmountSOL: 1},
	}))

	require.NoError(t, store.InsertBulk(ctx, []*domain.SwapObservation{
		{TokenID: "tokA", Signature: "sig-9", AmountSOL: 1},
		{TokenID: "tokA", Signature: "sig-9", AmountSOL: 1},
		{TokenID: "tokA", AmountSOL: 1},
		{TokenID: "tokA", AmountSOL: 1},
	}))

	// Everything already stored: nothing to insert, no error.
	require.NoError(t, store.InsertBulk(ctx, []*domain.SwapObservation{
		{TokenID: "tokA", Signature: "sig-1", AmountSOL: 1},
		{TokenID: "tokA", Signature: "sig-9", AmountSOL: 1},
	}))

	sums, err := store.SummaryByToken(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, int64(5), sums[0].Swaps)
	assert.InDelta(t, 5.0, sums[0].TotalSOL, 1e-9)
}

func TestSwapObservationStore_EmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapObservationStore(conn)
	require.NoError(t, store.InsertBulk(context.Background(), nil))
}

func TestSwapObservationStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapObservationStore(conn)
	err := store.InsertBulk(context.Background(), []*domain.SwapObservation{
		{TokenID: "tokA", Signature: "sig-1"},
		{Signature: "sig-2"},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
