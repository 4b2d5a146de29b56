// Package alert builds alert messages and delivers them to the
// notification channel without blocking the callers that raise them.
package alert

import (
	"context"

	"solana-swap-watch/internal/domain"
)

// Alert is a formatted, human-readable notification.
type Alert struct {
	ID        string           // uuid, used to correlate journal rows and logs
	Kind      domain.AlertKind // swap | simulated
	TokenID   string           // token mint address
	Text      string           // plain text message body
	CreatedAt int64            // Unix timestamp in milliseconds
}

// Dispatcher hands alerts over for delivery.
// Implementations return once the alert is accepted, not delivered.
type Dispatcher interface {
	Dispatch(ctx context.Context, a Alert) error
}

// Sink delivers one alert to a destination.
type Sink interface {
	// Name identifies the sink in logs, metrics and journal rows.
	Name() string

	// Send delivers the alert, honouring ctx cancellation where the
	// transport allows it.
	Send(ctx context.Context, a Alert) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, a Alert) error

// Dispatch calls f(ctx, a).
func (f DispatcherFunc) Dispatch(ctx context.Context, a Alert) error {
	return f(ctx, a)
}
