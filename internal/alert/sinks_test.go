package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-watch/internal/storage/memory"
)

// recordingSink records delivered alerts and optionally fails or blocks.
type recordingSink struct {
	name  string
	err   error
	block chan struct{} // when non-nil, Send waits on it or ctx

	mu   sync.Mutex
	sent []Alert
}

func (s *recordingSink) Name() string {
	if s.name == "" {
		return "recording"
	}
	return s.name
}

func (s *recordingSink) Send(ctx context.Context, a Alert) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, a)
	return s.err
}

func (s *recordingSink) Sent() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert(nil), s.sent...)
}

func TestFanout_DeliversToAllSinks(t *testing.T) {
	first := &recordingSink{name: "first", err: errors.New("boom")}
	second := &recordingSink{name: "second"}

	f := NewFanout(first, second)
	err := f.Send(context.Background(), NewSimulatedAlert("T", 5))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first: boom")
	assert.Len(t, first.Sent(), 1)
	assert.Len(t, second.Sent(), 1, "a failing sink must not stop the others")
}

func TestFanout_NoErrors(t *testing.T) {
	f := NewFanout(&recordingSink{}, &recordingSink{})
	assert.NoError(t, f.Send(context.Background(), NewSimulatedAlert("T", 5)))
}

func TestJournalSink_RecordsOutcome(t *testing.T) {
	journal := memory.NewAlertJournal()
	ctx := context.Background()

	ok := NewJournalSink(&recordingSink{name: "telegram"}, journal, zerolog.Nop())
	failing := NewJournalSink(&recordingSink{name: "websocket", err: errors.New("closed")}, journal, zerolog.Nop())

	a := NewSimulatedAlert("TokA", 7)
	require.NoError(t, ok.Send(ctx, a))
	require.Error(t, failing.Send(ctx, a))

	recs, err := journal.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	bySink := map[string]bool{}
	for _, r := range recs {
		assert.Equal(t, a.ID, r.AlertID)
		assert.Equal(t, a.Text, r.Text)
		bySink[r.Sink] = r.Delivered
		if !r.Delivered {
			assert.Equal(t, "closed", r.Error)
		}
	}
	assert.Equal(t, map[string]bool{"telegram": true, "websocket": false}, bySink)
	assert.Equal(t, "telegram", ok.Name())
}

func TestJournalSink_WritesAfterDeadline(t *testing.T) {
	journal := memory.NewAlertJournal()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	sink := NewJournalSink(&recordingSink{block: make(chan struct{})}, journal, zerolog.Nop())
	err := sink.Send(ctx, NewSimulatedAlert("T", 5))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	recs, err := journal.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Delivered)
}

func TestLogSink(t *testing.T) {
	s := NewLogSink(zerolog.Nop())
	assert.Equal(t, "log", s.Name())
	assert.NoError(t, s.Send(context.Background(), NewSimulatedAlert("T", 5)))
}
