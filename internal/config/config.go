// Package config loads the server configuration from the environment,
// an optional .env file and command-line flags (flags win).
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"solana-swap-watch/internal/settings"
	"solana-swap-watch/internal/solana"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full server configuration.
type Config struct {
	// Telegram
	TelegramToken      string
	TelegramChatID     int64
	AdminChatIDs       []int64
	TelegramRatePerSec float64
	DryRun             bool // log alerts instead of sending them to Telegram

	// Solana
	HeliusAPIKey string
	SolanaRPCURL string

	// HTTP
	HTTPAddr         string
	WebhookPath      string
	WebhookAuthToken string

	// Detection
	Settings            settings.Values
	OpportunityEnabled  bool
	OpportunityInterval time.Duration

	// Alert delivery
	AlertQueueSize   int
	AlertSendTimeout time.Duration

	// Optional stores; empty means in-memory
	PostgresDSN   string
	ClickhouseDSN string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads ENV_FILE (default .env) if present, then the environment,
// then parses args as flags.
func Load(args []string) (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	defaults := settings.DefaultValues()
	env := &envReader{}
	cfg := &Config{
		TelegramToken:      getEnv("TELEGRAM_TOKEN", ""),
		TelegramRatePerSec: env.getFloat("TELEGRAM_RATE_PER_SEC", 1),
		DryRun:             env.getBool("DRY_RUN", false),

		HeliusAPIKey: getEnv("HELIUS_API_KEY", ""),
		SolanaRPCURL: getEnv("SOLANA_RPC_URL", ""),

		HTTPAddr:         getEnv("HTTP_ADDR", ":8000"),
		WebhookPath:      getEnv("WEBHOOK_PATH", "/webhook"),
		WebhookAuthToken: getEnv("WEBHOOK_AUTH_TOKEN", ""),

		Settings: settings.Values{
			Slippage:    env.getFloat("SLIPPAGE_MAX", defaults.Slippage),
			Bet:         env.getFloat("FIXED_BET", defaults.Bet),
			MinSwap:     env.getFloat("MIN_SWAP_AMOUNT", defaults.MinSwap),
			MinProfit:   env.getFloat("MIN_NET_PROFIT", defaults.MinProfit),
			PriorityFee: env.getFloat("PRIORITY_FEE", defaults.PriorityFee),
		},
		OpportunityEnabled:  env.getBool("OPPORTUNITY_ENABLED", true),
		OpportunityInterval: env.getDuration("OPPORTUNITY_INTERVAL", 30*time.Second),

		AlertQueueSize:   env.getInt("ALERT_QUEUE_SIZE", 256),
		AlertSendTimeout: env.getDuration("ALERT_SEND_TIMEOUT", 10*time.Second),

		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       env.getInt("REDIS_DB", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if raw := getEnv("TELEGRAM_CHAT_ID", ""); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		env.check("TELEGRAM_CHAT_ID", raw, err)
		cfg.TelegramChatID = id
	}
	raw := getEnv("TELEGRAM_ADMIN_CHAT_IDS", "")
	ids, err := parseChatIDs(raw)
	env.check("TELEGRAM_ADMIN_CHAT_IDS", raw, err)
	cfg.AdminChatIDs = ids
	if len(cfg.AdminChatIDs) == 0 && cfg.TelegramChatID != 0 {
		cfg.AdminChatIDs = []int64{cfg.TelegramChatID}
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.HTTPAddr, "http-addr", c.HTTPAddr, "HTTP listen address")
	fs.StringVar(&c.WebhookPath, "webhook-path", c.WebhookPath, "Webhook endpoint path")
	fs.StringVar(&c.PostgresDSN, "postgres-dsn", c.PostgresDSN, "PostgreSQL connection string (alert journal)")
	fs.StringVar(&c.ClickhouseDSN, "clickhouse-dsn", c.ClickhouseDSN, "ClickHouse connection string (swap observations)")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "Redis address (dialog sessions)")
	fs.StringVar(&c.SolanaRPCURL, "rpc-url", c.SolanaRPCURL, "Solana RPC endpoint for mint inspection")
	fs.BoolVar(&c.DryRun, "dry-run", c.DryRun, "Log alerts instead of sending them to Telegram")
	fs.BoolVar(&c.OpportunityEnabled, "opportunity", c.OpportunityEnabled, "Run the simulated opportunity evaluator")
	fs.DurationVar(&c.OpportunityInterval, "opportunity-interval", c.OpportunityInterval, "Opportunity evaluator interval")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (console, json)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !c.DryRun {
		if c.TelegramToken == "" {
			add("TELEGRAM_TOKEN is required unless DRY_RUN=true")
		}
		if c.TelegramChatID == 0 {
			add("TELEGRAM_CHAT_ID is required unless DRY_RUN=true")
		}
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		add("WEBHOOK_PATH must start with /")
	}
	if c.HTTPAddr == "" {
		add("HTTP_ADDR is required")
	}
	for _, spec := range settings.Specs() {
		if v := c.Settings.Get(spec.Name); v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			add("%s default must be a non-negative number, got %v", spec.Name, v)
		}
	}
	if c.OpportunityEnabled && c.OpportunityInterval <= 0 {
		add("OPPORTUNITY_INTERVAL must be positive")
	}
	if c.AlertQueueSize <= 0 {
		add("ALERT_QUEUE_SIZE must be positive")
	}
	if c.AlertSendTimeout <= 0 {
		add("ALERT_SEND_TIMEOUT must be positive")
	}
	if c.TelegramRatePerSec <= 0 {
		add("TELEGRAM_RATE_PER_SEC must be positive")
	}
	return errors.Join(errs...)
}

// RPCEndpoint returns the Solana RPC URL, derived from the Helius key when
// no explicit URL is set. Empty disables on-chain mint inspection.
func (c *Config) RPCEndpoint() string {
	if c.SolanaRPCURL != "" {
		return c.SolanaRPCURL
	}
	if c.HeliusAPIKey != "" {
		return solana.HeliusRPCURL(c.HeliusAPIKey)
	}
	return ""
}

func parseChatIDs(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed variables and collects every parse failure, so
// a typo is reported instead of silently replaced by the default.
type envReader struct {
	errs []error
}

func (r *envReader) check(key, value string, err error) {
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err))
	}
}

func (r *envReader) getInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	r.check(key, value, err)
	return intValue
}

func (r *envReader) getFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	r.check(key, value, err)
	return floatValue
}

func (r *envReader) getBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	r.check(key, value, err)
	return boolValue
}

func (r *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	r.check(key, value, err)
	return duration
}
