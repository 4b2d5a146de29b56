package webhook

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solana-swap-watch/internal/observability"
	"solana-swap-watch/internal/storage"
)

// DefaultMaxBodyBytes caps a webhook delivery.
const DefaultMaxBodyBytes = 8 << 20

// observationTimeout bounds one asynchronous observation write.
const observationTimeout = 10 * time.Second

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// AuthToken, when set, must match the Authorization header
	// (verbatim or as "Bearer <token>").
	AuthToken string

	// Observations receives swap observations. Optional.
	Observations storage.SwapObservationStore

	MaxBodyBytes int64 // Default: 8 MiB
	Logger       zerolog.Logger
}

// Handler is the HTTP endpoint for webhook deliveries.
// An authorised POST is always acknowledged, whatever its content.
type Handler struct {
	pipeline     *Pipeline
	authToken    string
	observations storage.SwapObservationStore
	maxBody      int64
	logger       zerolog.Logger

	pending sync.WaitGroup
}

// NewHandler creates a webhook handler around pipeline.
func NewHandler(pipeline *Pipeline, opts HandlerOptions) *Handler {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		pipeline:     pipeline,
		authToken:    opts.AuthToken,
		observations: opts.Observations,
		maxBody:      maxBody,
		logger:       opts.Logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		observability.RecordWebhookRequest("method_not_allowed", 0)
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorized(r) {
		observability.RecordWebhookRequest("unauthorized", 0)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		h.logger.Warn().Err(err).Msg("webhook body not read")
		observability.RecordWebhookRequest("bad_body", 0)
		writeAck(w)
		return
	}

	raws, err := DecodeBatch(body)
	if err != nil {
		h.logger.Warn().Err(err).Int("bytes", len(body)).Msg("webhook body is not an event array")
		observability.RecordWebhookRequest("bad_body", 0)
		writeAck(w)
		return
	}

	// Alerts must not be lost when the sender hangs up mid-batch.
	ctx := context.WithoutCancel(r.Context())
	res := h.pipeline.Process(ctx, raws)

	h.logger.Debug().
		Int("received", res.Received).
		Int("swaps", res.Swaps).
		Int("alerts", res.Alerts).
		Int("malformed", res.Malformed).
		Int("dropped", res.Dropped).
		Msg("webhook batch processed")

	h.recordObservations(res)

	observability.RecordWebhookRequest("ok", time.Since(start).Seconds())
	writeAck(w)
}

// Wait blocks until pending observation writes have finished.
func (h *Handler) Wait() {
	h.pending.Wait()
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.authToken == "" {
		return true
	}
	got := strings.TrimSpace(r.Header.Get("Authorization"))
	got = strings.TrimPrefix(got, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.authToken)) == 1
}

func (h *Handler) recordObservations(res Result) {
	if h.observations == nil || len(res.Observations) == 0 {
		return
	}

	obs := res.Observations
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), observationTimeout)
		defer cancel()

		if err := h.observations.InsertBulk(ctx, obs); err != nil {
			observability.RecordObservationsLost(len(obs))
			h.logger.Warn().Err(err).Int("count", len(obs)).Msg("swap observations not stored")
		}
	}()
}

func writeAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}
