package alert

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// DefaultTelegramRate is the default message rate towards one chat.
const DefaultTelegramRate = 1.0

// MessageSender is the subset of the Telegram bot API used to send messages.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink delivers alerts as plain text messages to one chat.
type TelegramSink struct {
	api     MessageSender
	chatID  int64
	limiter *rate.Limiter
}

// NewTelegramSink creates a sink for chatID limited to perSecond messages.
func NewTelegramSink(api MessageSender, chatID int64, perSecond float64) *TelegramSink {
	if perSecond <= 0 {
		perSecond = DefaultTelegramRate
	}
	return &TelegramSink{
		api:     api,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Name implements Sink.
func (s *TelegramSink) Name() string { return "telegram" }

// Send implements Sink.
func (s *TelegramSink) Send(ctx context.Context, a Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	msg := tgbotapi.NewMessage(s.chatID, a.Text)
	msg.DisableWebPagePreview = true

	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

var _ Sink = (*TelegramSink)(nil)
