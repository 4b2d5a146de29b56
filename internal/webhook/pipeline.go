// Package webhook turns swap-event webhook deliveries into alerts for
// watched tokens.
package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-swap-watch/internal/alert"
	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/observability"
	"solana-swap-watch/internal/settings"
)

// WatchList reports whether a token is watched and active.
type WatchList interface {
	IsActive(tokenID string) bool
}

// Thresholds reads the current setting values.
type Thresholds interface {
	Get(name settings.Name) float64
}

// Result summarises one processed batch.
type Result struct {
	Received  int // events in the batch
	Malformed int // events that failed to decode
	Ignored   int // non-swap events and swaps without a token
	Swaps     int // swaps with a token
	Unwatched int // swaps on unknown or paused tokens
	BelowMin  int // swaps under min_swap
	Alerts    int // alerts accepted by the dispatcher
	Dropped   int // alerts the dispatcher refused

	// Observations has one row per swap with a token, in event order.
	Observations []*domain.SwapObservation
}

// Pipeline filters swap events against the watch list and settings.
type Pipeline struct {
	watch      WatchList
	thresholds Thresholds
	dispatcher alert.Dispatcher
	logger     zerolog.Logger
	now        func() time.Time
}

// NewPipeline creates a pipeline.
func NewPipeline(watch WatchList, thresholds Thresholds, dispatcher alert.Dispatcher, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		watch:      watch,
		thresholds: thresholds,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Process decodes and handles each raw event in order.
// A malformed event is counted and skipped; it never stops the batch.
func (p *Pipeline) Process(ctx context.Context, raws []json.RawMessage) Result {
	res := Result{Received: len(raws)}

	for i, raw := range raws {
		ev, err := DecodeEvent(raw)
		if err != nil {
			res.Malformed++
			p.logger.Debug().Err(err).Int("index", i).Msg("dropping malformed event")
			continue
		}
		p.handle(ctx, &ev, &res)
	}

	recordResult(res)
	return res
}

// ProcessEvents handles already decoded events in order.
func (p *Pipeline) ProcessEvents(ctx context.Context, events []domain.SwapEvent) Result {
	res := Result{Received: len(events)}

	for i := range events {
		p.handle(ctx, &events[i], &res)
	}

	recordResult(res)
	return res
}

func (p *Pipeline) handle(ctx context.Context, ev *domain.SwapEvent, res *Result) {
	if !ev.IsSwap() || ev.TokenID == "" {
		res.Ignored++
		return
	}
	res.Swaps++

	amount := ev.AmountSOL()
	obs := &domain.SwapObservation{
		TokenID:    ev.TokenID,
		Signature:  ev.Signature,
		Slot:       ev.Slot,
		AmountSOL:  amount.InexactFloat64(),
		ObservedAt: p.now().UnixMilli(),
	}
	res.Observations = append(res.Observations, obs)

	if !p.watch.IsActive(ev.TokenID) {
		res.Unwatched++
		return
	}

	minSwap := decimal.NewFromFloat(p.thresholds.Get(settings.MinSwap))
	if amount.LessThan(minSwap) {
		res.BelowMin++
		return
	}
	obs.Matched = true

	if err := p.dispatcher.Dispatch(ctx, alert.NewSwapAlert(ev.TokenID, amount)); err != nil {
		res.Dropped++
		p.logger.Warn().Err(err).Str("token", ev.TokenID).Msg("swap alert not dispatched")
		return
	}
	res.Alerts++
}

func recordResult(res Result) {
	observability.RecordWebhookEvents("malformed", res.Malformed)
	observability.RecordWebhookEvents("ignored", res.Ignored)
	observability.RecordWebhookEvents("unwatched", res.Unwatched)
	observability.RecordWebhookEvents("below_min", res.BelowMin)
	observability.RecordWebhookEvents("alerted", res.Alerts)
	observability.RecordWebhookEvents("dropped", res.Dropped)
}
