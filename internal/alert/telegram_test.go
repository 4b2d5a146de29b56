package alert

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.msgs = append(f.msgs, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegramSink_Send(t *testing.T) {
	api := &fakeSender{}
	sink := NewTelegramSink(api, -100123, 100)

	a := NewSimulatedAlert("TokA", 5)
	require.NoError(t, sink.Send(context.Background(), a))

	require.Len(t, api.msgs, 1)
	msg := api.msgs[0]
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, a.Text, msg.Text)
	assert.Empty(t, msg.ParseMode, "alerts are sent as plain text")
	assert.True(t, msg.DisableWebPagePreview)
	assert.Equal(t, "telegram", sink.Name())
}

func TestTelegramSink_Error(t *testing.T) {
	api := &fakeSender{err: errors.New("Bad Request: chat not found")}
	sink := NewTelegramSink(api, 1, 0)

	err := sink.Send(context.Background(), NewSimulatedAlert("T", 5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegramSink_CancelledContext(t *testing.T) {
	api := &fakeSender{}
	sink := NewTelegramSink(api, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sink.Send(ctx, NewSimulatedAlert("T", 5)), context.Canceled)
	assert.Empty(t, api.msgs)
}

func TestTelegramSink_RateLimitHonoursDeadline(t *testing.T) {
	api := &fakeSender{}
	sink := NewTelegramSink(api, 1, 0.001)

	// The first message consumes the only token.
	require.NoError(t, sink.Send(context.Background(), NewSimulatedAlert("T", 5)))

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	assert.Error(t, sink.Send(ctx, NewSimulatedAlert("T", 5)))
	assert.Len(t, api.msgs, 1)
}
