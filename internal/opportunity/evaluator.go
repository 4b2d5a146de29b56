// Package opportunity runs the periodic simulated-opportunity signal.
//
// The signal is a placeholder: profits are drawn from a fixed uniform
// range and every alert it raises is labelled as a test.
package opportunity

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solana-swap-watch/internal/alert"
	"solana-swap-watch/internal/observability"
	"solana-swap-watch/internal/settings"
)

// Simulated profit bounds, in dollars.
const (
	MinSimulatedProfit = 4.0
	MaxSimulatedProfit = 8.0
)

// DefaultInterval is the evaluation period.
const DefaultInterval = 30 * time.Second

// ProfitSource draws one simulated profit value.
type ProfitSource func() float64

// UniformProfit returns a source drawing round(uniform(4, 8), 2) from r.
// The source is safe for concurrent use.
func UniformProfit(r *rand.Rand) ProfitSource {
	var mu sync.Mutex
	return func() float64 {
		mu.Lock()
		u := r.Float64()
		mu.Unlock()

		v := MinSimulatedProfit + u*(MaxSimulatedProfit-MinSimulatedProfit)
		return math.Round(v*100) / 100
	}
}

// SeededProfit returns a deterministic uniform source.
func SeededProfit(seed uint64) ProfitSource {
	return UniformProfit(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// FixedProfit returns a source that always yields v.
func FixedProfit(v float64) ProfitSource {
	return func() float64 { return v }
}

// ActiveTokens lists the tokens to evaluate.
type ActiveTokens interface {
	ActiveTokens() []string
}

// Thresholds reads the current setting values.
type Thresholds interface {
	Get(name settings.Name) float64
}

// Options configures an Evaluator.
type Options struct {
	Interval time.Duration // Default: 30s
	Profit   ProfitSource  // Default: time-seeded uniform source
	Logger   zerolog.Logger
}

// TickResult summarises one evaluation pass.
type TickResult struct {
	Evaluated int // active tokens seen
	Alerts    int // alerts accepted by the dispatcher
	Failed    int // alerts the dispatcher refused
}

// Evaluator draws a simulated profit per active token on every tick.
type Evaluator struct {
	tokens     ActiveTokens
	thresholds Thresholds
	dispatcher alert.Dispatcher
	interval   time.Duration
	profit     ProfitSource
	logger     zerolog.Logger
}

// NewEvaluator creates an evaluator.
func NewEvaluator(tokens ActiveTokens, thresholds Thresholds, dispatcher alert.Dispatcher, opts Options) *Evaluator {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	profit := opts.Profit
	if profit == nil {
		profit = SeededProfit(uint64(time.Now().UnixNano()))
	}

	return &Evaluator{
		tokens:     tokens,
		thresholds: thresholds,
		dispatcher: dispatcher,
		interval:   interval,
		profit:     profit,
		logger:     opts.Logger,
	}
}

// Run evaluates once per interval until ctx is cancelled.
// The first evaluation happens one interval after start.
func (e *Evaluator) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info().Dur("interval", e.interval).Msg("opportunity evaluator started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("opportunity evaluator stopped")
			return
		case <-ticker.C:
			res := e.Tick(ctx)
			e.logger.Debug().
				Int("evaluated", res.Evaluated).
				Int("alerts", res.Alerts).
				Int("failed", res.Failed).
				Msg("opportunity tick")
		}
	}
}

// Tick runs one evaluation pass over a snapshot of the active tokens.
// A dispatch failure for one token does not stop the others.
func (e *Evaluator) Tick(ctx context.Context) TickResult {
	tokens := e.tokens.ActiveTokens()
	minProfit := e.thresholds.Get(settings.MinProfit)

	var res TickResult
	for _, token := range tokens {
		if ctx.Err() != nil {
			break
		}
		res.Evaluated++

		profit := e.profit()
		observability.RecordSimulatedProfit(profit)
		if profit < minProfit {
			continue
		}

		if err := e.dispatcher.Dispatch(ctx, alert.NewSimulatedAlert(token, profit)); err != nil {
			res.Failed++
			e.logger.Warn().Err(err).Str("token", token).Msg("simulated alert not dispatched")
			continue
		}
		res.Alerts++
	}

	observability.RecordEvaluatorTick(float64(time.Now().Unix()))
	return res
}
