package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"solana-swap-watch/internal/control"
	"solana-swap-watch/internal/domain"
)

// Callback data values and prefixes.
const (
	cbToggle    = "toggle_"
	cbSet       = "set_"
	cbPauseAll  = "pause_all"
	cbResumeAll = "resume_all"
	cbSettings  = "settings"
	cbMenu      = "menu"
)

// mainMenu has one toggle button per token, then bulk actions and settings.
func mainMenu(entries []domain.WatchEntry) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entries)+2)
	for _, e := range entries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(tokenButtonText(e), cbToggle+e.TokenID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏸ Pause All", cbPauseAll),
			tgbotapi.NewInlineKeyboardButtonData("▶️ Resume All", cbResumeAll),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", cbSettings),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// settingsMenu has one button per setting showing its value.
func settingsMenu(views []control.SettingView) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(views)+1)
	for _, v := range views {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(settingButtonText(v), cbSet+string(v.Name)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
