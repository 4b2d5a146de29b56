// Command replay feeds a saved webhook payload through the swap pipeline
// with a given watch list and prints the alerts it would raise.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"solana-swap-watch/internal/alert"
	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/logging"
	"solana-swap-watch/internal/settings"
	"solana-swap-watch/internal/storage"
	chstore "solana-swap-watch/internal/storage/clickhouse"
	"solana-swap-watch/internal/storage/memory"
	"solana-swap-watch/internal/watch"
	"solana-swap-watch/internal/webhook"
)

func main() {
	payload := flag.String("payload", "", "Webhook payload file, - for stdin (required)")
	tokens := flag.String("tokens", "", "Comma-separated watched token addresses (required)")
	minSwap := flag.Float64("min-swap", settings.DefaultValues().MinSwap, "Minimum swap amount (SOL)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "Store observations in ClickHouse instead of memory")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	logLevel := flag.String("log-level", "warn", "Log level")

	flag.Parse()

	logger := logging.Component(logging.NewWithWriter(os.Stderr, *logLevel, logging.FormatConsole), "replay")

	if *payload == "" {
		logger.Fatal().Msg("--payload is required")
	}
	watched := splitTokens(*tokens)
	if len(watched) == 0 {
		logger.Fatal().Msg("--tokens is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	body, err := readPayload(*payload)
	if err != nil {
		logger.Fatal().Err(err).Msg("read payload")
	}

	var observations storage.SwapObservationStore = memory.NewSwapObservationStore()
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to clickhouse")
		}
		defer conn.Close()
		observations = chstore.NewSwapObservationStore(conn)
	}

	registry := watch.NewRegistry()
	for _, t := range watched {
		registry.Add(t)
	}

	values := settings.DefaultValues()
	values.MinSwap = *minSwap

	report, err := run(ctx, body, registry, settings.NewStore(values), observations, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("replay failed")
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
		return
	}
	printReport(os.Stdout, report)
}

// Report is the outcome of one replay.
type Report struct {
	Result  webhook.Result         `json:"result"`
	Alerts  []alert.Alert          `json:"alerts"`
	Summary []*domain.TokenSummary `json:"summary"`
}

func run(
	ctx context.Context,
	body []byte,
	watchList webhook.WatchList,
	thresholds webhook.Thresholds,
	observations storage.SwapObservationStore,
	logger zerolog.Logger,
) (*Report, error) {
	events, err := webhook.DecodeBatch(body)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var alerts []alert.Alert
	collect := alert.DispatcherFunc(func(_ context.Context, a alert.Alert) error {
		alerts = append(alerts, a)
		return nil
	})
	res := webhook.NewPipeline(watchList, thresholds, collect, logger).Process(ctx, events)

	if len(res.Observations) > 0 {
		if err := observations.InsertBulk(ctx, res.Observations); err != nil {
			return nil, fmt.Errorf("store observations: %w", err)
		}
	}

	summary, err := observations.SummaryByToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarise observations: %w", err)
	}

	res.Observations = nil
	return &Report{Result: res, Alerts: alerts, Summary: summary}, nil
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func splitTokens(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func printReport(w io.Writer, r *Report) {
	for _, a := range r.Alerts {
		fmt.Fprintf(w, "--- %s alert for %s\n%s\n", a.Kind, a.TokenID, a.Text)
	}

	res := r.Result
	fmt.Fprintf(w, "\n=== Replay Summary ===\n")
	fmt.Fprintf(w, "Events:        %d\n", res.Received)
	fmt.Fprintf(w, "Malformed:     %d\n", res.Malformed)
	fmt.Fprintf(w, "Ignored:       %d\n", res.Ignored)
	fmt.Fprintf(w, "Swaps:         %d\n", res.Swaps)
	fmt.Fprintf(w, "Unwatched:     %d\n", res.Unwatched)
	fmt.Fprintf(w, "Below min:     %d\n", res.BelowMin)
	fmt.Fprintf(w, "Alerts:        %d\n", res.Alerts)

	if len(r.Summary) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%-46s %8s %8s %12s\n", "Token", "Swaps", "Alerts", "Volume SOL")
	for _, s := range r.Summary {
		fmt.Fprintf(w, "%-46s %8d %8d %12.4f\n", s.TokenID, s.Swaps, s.Alerts, s.TotalSOL)
	}
}
