// Package main runs the swap watcher service:
// - Webhook ingestion: Helius enhanced-transaction webhooks → swap alerts
// - Opportunity evaluator (scheduled): simulated alerts for active tokens
// - Telegram bot: watch-list and settings control
// - HTTP: /health, /metrics, /status, /ws/alerts
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"solana-swap-watch/internal/alert"
	"solana-swap-watch/internal/config"
	"solana-swap-watch/internal/control"
	"solana-swap-watch/internal/logging"
	"solana-swap-watch/internal/observability"
	"solana-swap-watch/internal/opportunity"
	"solana-swap-watch/internal/settings"
	"solana-swap-watch/internal/solana"
	"solana-swap-watch/internal/storage"
	chstore "solana-swap-watch/internal/storage/clickhouse"
	"solana-swap-watch/internal/storage/memory"
	"solana-swap-watch/internal/storage/migrations"
	pgstore "solana-swap-watch/internal/storage/postgres"
	redisstore "solana-swap-watch/internal/storage/redis"
	"solana-swap-watch/internal/telegram"
	"solana-swap-watch/internal/watch"
	"solana-swap-watch/internal/webhook"
)

const shutdownTimeout = 15 * time.Second

// newBotAPI connects to Telegram; replaced in tests.
var newBotAPI = func(token string) (telegram.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return api, nil
}

// Server holds all components of the service.
type Server struct {
	cfg    *config.Config
	logger zerolog.Logger

	// Core state
	registry *watch.Registry
	settings *settings.Store
	control  *control.Service

	// Alert delivery
	primary alert.Sink
	queue   *alert.Queue
	hub     *alert.Hub

	// Components
	handler   *webhook.Handler
	evaluator *opportunity.Evaluator
	bot       *telegram.Bot
	stores    *allStores

	started time.Time
}

// allStores holds the optional persistence backends.
type allStores struct {
	journal      storage.AlertJournal
	observations storage.SwapObservationStore
	sessions     storage.SessionStore
	closers      []func()
}

func (s *allStores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fallback := logging.New("info", logging.FormatConsole)
		fallback.Fatal().Err(err).Msg("load config")
	}

	root := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger := logging.Component(root, "server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := createStores(ctx, cfg, root)
	if err != nil {
		logger.Fatal().Err(err).Msg("create stores")
	}
	defer stores.close()

	server, err := newServer(cfg, stores, root)
	if err != nil {
		logger.Fatal().Err(err).Msg("create server")
	}

	// Channel to signal completion
	done := make(chan struct{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warn().Str("signal", sig.String()).Msg("second signal, forcing exit")
			os.Exit(1)
		case <-time.After(2 * shutdownTimeout):
			logger.Error().Msg("graceful shutdown timed out, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = server.Run(ctx)
	close(done)

	if err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}

// createStores connects the configured backends and falls back to memory
// for the ones left unset.
func createStores(ctx context.Context, cfg *config.Config, root zerolog.Logger) (*allStores, error) {
	logger := logging.Component(root, "stores")
	stores := &allStores{}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		stores.closers = append(stores.closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			stores.close()
			return nil, err
		}
		stores.journal = pgstore.NewAlertJournal(pool)
		logger.Info().Msg("alert journal: postgres")
	} else {
		stores.journal = memory.NewAlertJournal()
		logger.Info().Msg("alert journal: memory")
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			stores.close()
			return nil, err
		}
		stores.closers = append(stores.closers, func() { _ = conn.Close() })
		stores.observations = chstore.NewSwapObservationStore(conn)
		logger.Info().Msg("swap observations: clickhouse")
	} else {
		stores.observations = memory.NewSwapObservationStore()
		logger.Info().Msg("swap observations: memory")
	}

	if cfg.RedisAddr != "" {
		client, err := redisstore.NewClient(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			stores.close()
			return nil, err
		}
		stores.closers = append(stores.closers, func() { _ = client.Close() })
		stores.sessions = redisstore.NewSessionStore(client, redisstore.DefaultSessionTTL)
		logger.Info().Msg("dialog sessions: redis")
	} else {
		stores.sessions = memory.NewSessionStore()
		logger.Info().Msg("dialog sessions: memory")
	}

	return stores, nil
}

func newServer(cfg *config.Config, stores *allStores, root zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		logger:   logging.Component(root, "server"),
		registry: watch.NewRegistry(),
		settings: settings.NewStore(cfg.Settings),
		stores:   stores,
	}

	s.control = control.NewService(s.registry, s.settings, control.Options{
		Journal:      stores.journal,
		Observations: stores.observations,
		Logger:       logging.Component(root, "control"),
	})

	// The bot runs whenever a token is configured; dry run only swaps the
	// primary alert sink for a log sink.
	var api telegram.BotAPI
	if cfg.TelegramToken != "" {
		var err error
		api, err = newBotAPI(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
	}

	// Alert delivery: journaled primary sink (Telegram or log) + live feed.
	if cfg.DryRun || api == nil {
		s.primary = alert.NewLogSink(logging.Component(root, "alerts"))
	} else {
		s.primary = alert.NewTelegramSink(api, cfg.TelegramChatID, cfg.TelegramRatePerSec)
	}

	s.hub = alert.NewHub(logging.Component(root, "ws"))
	journaled := alert.NewJournalSink(s.primary, stores.journal, logging.Component(root, "journal"))
	s.queue = alert.NewQueue(alert.NewFanout(journaled, s.hub), alert.QueueOptions{
		Size:        cfg.AlertQueueSize,
		SendTimeout: cfg.AlertSendTimeout,
		Logger:      logging.Component(root, "queue"),
	})

	pipeline := webhook.NewPipeline(s.registry, s.settings, s.queue, logging.Component(root, "webhook"))
	s.handler = webhook.NewHandler(pipeline, webhook.HandlerOptions{
		AuthToken:    cfg.WebhookAuthToken,
		Observations: stores.observations,
		Logger:       logging.Component(root, "webhook"),
	})

	if cfg.OpportunityEnabled {
		s.evaluator = opportunity.NewEvaluator(s.registry, s.settings, s.queue, opportunity.Options{
			Interval: cfg.OpportunityInterval,
			Logger:   logging.Component(root, "opportunity"),
		})
	}

	if api != nil {
		var rpc solana.RPCClient
		if endpoint := cfg.RPCEndpoint(); endpoint != "" {
			rpc = solana.NewHTTPClient(endpoint, solana.WithRateLimit(5))
		}
		s.bot = telegram.NewBot(api, s.control, telegram.Options{
			AdminChats: cfg.AdminChatIDs,
			Sessions:   stores.sessions,
			RPC:        rpc,
			Logger:     logging.Component(root, "telegram"),
		})
	}

	return s, nil
}

// Run serves until ctx is cancelled, then shuts down in dependency order:
// HTTP intake, producers, queue drain, live feed.
func (s *Server) Run(ctx context.Context) error {
	s.started = time.Now()

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.HTTPAddr).Str("webhook", s.cfg.WebhookPath).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	workCtx, stopWork := context.WithCancel(ctx)
	var wg sync.WaitGroup

	if s.evaluator != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.evaluator.Run(workCtx)
		}()
	}
	if s.bot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.bot.Run(workCtx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("http shutdown")
	}
	stopWork()
	wg.Wait()
	s.handler.Wait()

	if err := s.queue.Close(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("alert queue not fully drained")
	}
	s.hub.Close()

	return runErr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle(s.cfg.WebhookPath, s.handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/ws/alerts", s.hub)

	return mux
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status        string             `json:"status"`
	Uptime        string             `json:"uptime"`
	Started       time.Time          `json:"started"`
	DryRun        bool               `json:"dry_run"`
	WatchedTokens int                `json:"watched_tokens"`
	ActiveTokens  int                `json:"active_tokens"`
	Settings      map[string]float64 `json:"settings"`
	QueueDepth    int                `json:"queue_depth"`
	WSClients     int                `json:"ws_clients"`
	Opportunity   bool               `json:"opportunity_enabled"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	views := s.control.Settings()
	values := make(map[string]float64, len(views))
	for _, v := range views {
		values[string(v.Name)] = v.Value
	}

	resp := StatusResponse{
		Status:        "running",
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		Started:       s.started,
		DryRun:        s.cfg.DryRun,
		WatchedTokens: s.registry.Len(),
		ActiveTokens:  len(s.registry.ActiveTokens()),
		Settings:      values,
		QueueDepth:    s.queue.Len(),
		WSClients:     s.hub.Clients(),
		Opportunity:   s.evaluator != nil,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
