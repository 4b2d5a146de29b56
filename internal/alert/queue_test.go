package alert

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_DeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	q := NewQueue(sink, QueueOptions{Size: 8, Logger: zerolog.Nop()})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 5; i++ {
		a := NewSimulatedAlert("T", float64(i))
		ids = append(ids, a.ID)
		require.NoError(t, q.Dispatch(ctx, a))
	}

	require.NoError(t, q.Close(ctx))

	sent := sink.Sent()
	require.Len(t, sent, 5)
	for i, a := range sent {
		assert.Equal(t, ids[i], a.ID)
	}
}

func TestQueue_FullDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	sink := &recordingSink{block: release}
	q := NewQueue(sink, QueueOptions{Size: 1, SendTimeout: time.Minute, Logger: zerolog.Nop()})

	ctx := context.Background()

	// First alert is taken by the sender and blocks in Send, second fills the buffer.
	require.NoError(t, q.Dispatch(ctx, NewSimulatedAlert("T", 1)))
	require.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Dispatch(ctx, NewSimulatedAlert("T", 2)))

	done := make(chan error, 1)
	go func() { done <- q.Dispatch(ctx, NewSimulatedAlert("T", 3)) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(release)
	require.NoError(t, q.Close(ctx))
	assert.Len(t, sink.Sent(), 2)
}

func TestQueue_SendTimeoutBoundsDelivery(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	q := NewQueue(sink, QueueOptions{Size: 4, SendTimeout: 20 * time.Millisecond, Logger: zerolog.Nop()})

	ctx := context.Background()
	require.NoError(t, q.Dispatch(ctx, NewSimulatedAlert("T", 1)))
	require.NoError(t, q.Dispatch(ctx, NewSimulatedAlert("T", 2)))

	// Both sends time out; the sender keeps going and Close returns.
	closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, q.Close(closeCtx))
	assert.Empty(t, sink.Sent())
}

func TestQueue_DispatchAfterClose(t *testing.T) {
	q := NewQueue(&recordingSink{}, QueueOptions{Logger: zerolog.Nop()})
	require.NoError(t, q.Close(context.Background()))

	err := q.Dispatch(context.Background(), NewSimulatedAlert("T", 1))
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Close is idempotent.
	assert.NoError(t, q.Close(context.Background()))
}

func TestQueue_CloseDeadlineCancelsPending(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	q := NewQueue(sink, QueueOptions{Size: 4, SendTimeout: time.Hour, Logger: zerolog.Nop()})

	ctx := context.Background()
	require.NoError(t, q.Dispatch(ctx, NewSimulatedAlert("T", 1)))
	require.NoError(t, q.Dispatch(ctx, NewSimulatedAlert("T", 2)))

	closeCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := q.Close(closeCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, sink.Sent())
}

func TestQueue_CancelledContext(t *testing.T) {
	q := NewQueue(&recordingSink{}, QueueOptions{Logger: zerolog.Nop()})
	defer q.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, q.Dispatch(ctx, NewSimulatedAlert("T", 1)), context.Canceled)
}
