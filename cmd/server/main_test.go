package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-watch/internal/config"
	"solana-swap-watch/internal/settings"
	"solana-swap-watch/internal/storage/memory"
	"solana-swap-watch/internal/telegram"
)

const (
	adminChat = int64(42)
	usdc      = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

type stubBotAPI struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *stubBotAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *stubBotAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *stubBotAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *stubBotAPI) StopReceivingUpdates() {}

// useBotAPI swaps the Telegram constructor for the duration of the test.
func useBotAPI(t *testing.T, api telegram.BotAPI, err error) *int {
	t.Helper()
	calls := 0
	prev := newBotAPI
	newBotAPI = func(string) (telegram.BotAPI, error) {
		calls++
		return api, err
	}
	t.Cleanup(func() { newBotAPI = prev })
	return &calls
}

func testConfig() *config.Config {
	return &config.Config{
		TelegramToken:      "123:abc",
		TelegramChatID:     adminChat,
		AdminChatIDs:       []int64{adminChat},
		TelegramRatePerSec: 10,
		HTTPAddr:           ":0",
		WebhookPath:        "/webhook",
		Settings:           settings.DefaultValues(),
		AlertQueueSize:     8,
		AlertSendTimeout:   time.Second,
	}
}

func testStores() *allStores {
	return &allStores{
		journal:      memory.NewAlertJournal(),
		observations: memory.NewSwapObservationStore(),
		sessions:     memory.NewSessionStore(),
	}
}

func shutdown(t *testing.T, s *Server) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.queue.Close(ctx)
		s.hub.Close()
	})
}

func TestNewServer_DryRunKeepsBot(t *testing.T) {
	api := &stubBotAPI{}
	calls := useBotAPI(t, api, nil)

	cfg := testConfig()
	cfg.DryRun = true

	s, err := newServer(cfg, testStores(), zerolog.Nop())
	require.NoError(t, err)
	shutdown(t, s)

	assert.Equal(t, 1, *calls)
	require.NotNil(t, s.bot, "dry run must still accept admin commands")
	assert.Equal(t, "log", s.primary.Name())

	upd := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: adminChat},
		Text:     "/add " + usdc,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/add")}},
	}}
	s.bot.HandleUpdate(context.Background(), upd)

	assert.True(t, s.registry.IsActive(usdc))
	api.mu.Lock()
	assert.NotEmpty(t, api.sent)
	api.mu.Unlock()
}

func TestNewServer_LiveUsesTelegramSink(t *testing.T) {
	useBotAPI(t, &stubBotAPI{}, nil)

	s, err := newServer(testConfig(), testStores(), zerolog.Nop())
	require.NoError(t, err)
	shutdown(t, s)

	assert.NotNil(t, s.bot)
	assert.Equal(t, "telegram", s.primary.Name())
}

func TestNewServer_DryRunWithoutToken(t *testing.T) {
	calls := useBotAPI(t, &stubBotAPI{}, nil)

	cfg := testConfig()
	cfg.DryRun = true
	cfg.TelegramToken = ""

	s, err := newServer(cfg, testStores(), zerolog.Nop())
	require.NoError(t, err)
	shutdown(t, s)

	assert.Zero(t, *calls)
	assert.Nil(t, s.bot)
	assert.Equal(t, "log", s.primary.Name())
}

func TestNewServer_BotAPIError(t *testing.T) {
	useBotAPI(t, nil, errors.New("unauthorized"))

	_, err := newServer(testConfig(), testStores(), zerolog.Nop())
	assert.Error(t, err)
}
