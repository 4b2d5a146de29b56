// Package redis keeps control-bot dialog state in Redis so a pending
// edit survives a process restart.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/storage"
)

// DefaultSessionTTL expires dialogs the admin walked away from.
const DefaultSessionTTL = 30 * time.Minute

const keyPrefix = "swapwatch:dialog:"

// Options configures a Redis client.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SessionStore implements storage.SessionStore on Redis strings.
type SessionStore struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewSessionStore creates a session store. A non-positive ttl uses DefaultSessionTTL.
func NewSessionStore(client goredis.Cmdable, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Compile-time interface check.
var _ storage.SessionStore = (*SessionStore)(nil)

// Get returns the dialog state for chatID, or the idle state if none.
func (s *SessionStore) Get(ctx context.Context, chatID int64) (domain.DialogState, error) {
	raw, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.IdleDialog(), nil
	}
	if err != nil {
		return domain.DialogState{}, fmt.Errorf("get dialog state: %w", err)
	}

	var st domain.DialogState
	if err := json.Unmarshal(raw, &st); err != nil {
		return domain.DialogState{}, fmt.Errorf("decode dialog state: %w", err)
	}
	return st, nil
}

// Set stores the dialog state for chatID. The idle state deletes the key.
func (s *SessionStore) Set(ctx context.Context, chatID int64, state domain.DialogState) error {
	if state.Step == domain.DialogIdle {
		return s.Clear(ctx, chatID)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode dialog state: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(chatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set dialog state: %w", err)
	}
	return nil
}

// Clear resets chatID to the idle state.
func (s *SessionStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("clear dialog state: %w", err)
	}
	return nil
}

func sessionKey(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}
