// Package telegram is the operator control surface: a Telegram bot that
// manages the watch list and settings through commands and inline menus.
package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"solana-swap-watch/internal/control"
	"solana-swap-watch/internal/solana"
	"solana-swap-watch/internal/storage"
	"solana-swap-watch/internal/storage/memory"
)

// BotAPI is the subset of *tgbotapi.BotAPI the bot uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ BotAPI = (*tgbotapi.BotAPI)(nil)

// Defaults.
const (
	DefaultPollTimeout = 30 // seconds
	DefaultRecentLimit = 10
	rpcTimeout         = 5 * time.Second
)

// Options configures a Bot.
type Options struct {
	// AdminChats may issue commands. Empty means nobody can.
	AdminChats []int64

	// Sessions keeps dialog state. Default: in-memory.
	Sessions storage.SessionStore

	// RPC, when set, is used to inspect mints on /add.
	RPC solana.RPCClient

	PollTimeout int // long-poll seconds, Default: 30
	Logger      zerolog.Logger
}

// Bot routes Telegram updates to the control service.
type Bot struct {
	api         BotAPI
	svc         *control.Service
	sessions    storage.SessionStore
	rpc         solana.RPCClient
	admins      map[int64]struct{}
	pollTimeout int
	logger      zerolog.Logger
}

// NewBot creates a bot.
func NewBot(api BotAPI, svc *control.Service, opts Options) *Bot {
	sessions := opts.Sessions
	if sessions == nil {
		sessions = memory.NewSessionStore()
	}

	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	admins := make(map[int64]struct{}, len(opts.AdminChats))
	for _, id := range opts.AdminChats {
		admins[id] = struct{}{}
	}

	return &Bot{
		api:         api,
		svc:         svc,
		sessions:    sessions,
		rpc:         opts.RPC,
		admins:      admins,
		pollTimeout: pollTimeout,
		logger:      opts.Logger,
	}
}

// Run long-polls for updates until ctx is cancelled.
// Updates are handled one at a time so a chat's dialog steps stay ordered.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info().Int("admins", len(b.admins)).Msg("telegram bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info().Msg("telegram bot stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate processes one update.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	_, ok := b.admins[chatID]
	return ok
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if !b.isAdmin(chatID) {
		b.logger.Warn().Int64("chat_id", chatID).Msg("rejected message from non-admin chat")
		b.reply(chatID, textNotAuthorised)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())
		return
	}

	state, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("load dialog state")
		return
	}
	if state.Setting != "" {
		b.applySetting(ctx, chatID, state.Setting, msg.Text)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	b.send(msg)
}

func (b *Bot) replyWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn().Err(err).Msg("telegram send failed")
	}
}

func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.logger.Debug().Err(err).Msg("answer callback failed")
	}
}
