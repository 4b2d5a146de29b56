package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/settings"
)

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq, "")
		return
	}
	chatID := cq.Message.Chat.ID

	if !b.isAdmin(chatID) {
		b.logger.Warn().Int64("chat_id", chatID).Msg("rejected callback from non-admin chat")
		b.answer(cq, textNotAuthorised)
		return
	}

	data := cq.Data
	switch {
	case strings.HasPrefix(data, cbToggle):
		b.cbToggle(cq, strings.TrimPrefix(data, cbToggle))
	case data == cbPauseAll:
		b.svc.PauseAll()
		b.answer(cq, "⏸ All tokens paused")
		b.editMenu(cq)
	case data == cbResumeAll:
		b.svc.ResumeAll()
		b.answer(cq, "▶️ All tokens resumed")
		b.editMenu(cq)
	case data == cbSettings:
		b.answer(cq, "")
		b.edit(cq, textSettings, settingsMenu(b.svc.Settings()))
	case data == cbMenu:
		b.answer(cq, "")
		b.editMenu(cq)
	case strings.HasPrefix(data, cbSet):
		b.cbSelectSetting(ctx, cq, strings.TrimPrefix(data, cbSet))
	default:
		b.answer(cq, "")
	}
}

func (b *Bot) cbToggle(cq *tgbotapi.CallbackQuery, token string) {
	active, err := b.svc.ToggleToken(token)
	if err != nil {
		b.answer(cq, "❌ Token not found")
	} else {
		b.answer(cq, activatedText(token, active))
	}
	b.editMenu(cq)
}

// cbSelectSetting starts the edit dialog: Idle -> AwaitingValue(name).
func (b *Bot) cbSelectSetting(ctx context.Context, cq *tgbotapi.CallbackQuery, name string) {
	spec, ok := settings.Lookup(name)
	if !ok {
		b.answer(cq, "Unknown setting")
		return
	}

	chatID := cq.Message.Chat.ID
	if err := b.sessions.Set(ctx, chatID, domain.AwaitingValue(string(spec.Name))); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("store dialog state")
		b.answer(cq, "❌ Try again later")
		return
	}

	b.answer(cq, "")
	current := b.currentValue(spec.Name)
	b.send(tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID,
		fmt.Sprintf("%s\nCurrent: %s", spec.Prompt, formatValue(current, spec.Unit))))
}

func (b *Bot) currentValue(name settings.Name) float64 {
	for _, v := range b.svc.Settings() {
		if v.Name == name {
			return v.Value
		}
	}
	return 0
}

func (b *Bot) editMenu(cq *tgbotapi.CallbackQuery) {
	b.edit(cq, textMenu, mainMenu(b.svc.ListTokens()))
}

func (b *Bot) edit(cq *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) {
	b.send(tgbotapi.NewEditMessageTextAndMarkup(cq.Message.Chat.ID, cq.Message.MessageID, text, markup))
}
