package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"solana-swap-watch/internal/control"
	"solana-swap-watch/internal/domain"
)

const (
	textNotAuthorised = "⛔ This chat is not allowed to control the bot."
	textMenu          = "🎛 Main menu:"
	textSettings      = "Settings:"
	textReset         = "🔁 Watch list cleared."
	textUnknown       = "Unknown command. Send /help for the list."
	textInvalidInput  = "❌ Invalid input. Open /settings to try again."
	textCancelled     = "Cancelled."
	textNothingToStop = "Nothing to cancel."
	textNoAlerts      = "No alerts recorded yet."
	textNoJournal     = "Alert history is not configured."
	textNoStats       = "Swap statistics are not configured."

	usageAdd    = "Usage: /add <token_address>"
	usageDelete = "Usage: /delete <token_address>"
	usageStats  = "Usage: /stats <token_address>"
)

const textHelp = "/start – Main menu (watched tokens)\n" +
	"/add <token_address> – Watch a token\n" +
	"/delete <token_address> – Stop watching a token\n" +
	"/reset – Remove every watched token\n" +
	"/settings – Change settings (slippage, bet, ...)\n" +
	"/alerts – Recent alerts\n" +
	"/stats <token_address> – Swap statistics for a token\n" +
	"/cancel – Abort a pending setting change\n" +
	"/help – Show this message"

func formatValue(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "%" {
		return s + "%"
	}
	return s + " " + unit
}

func settingButtonText(v control.SettingView) string {
	return fmt.Sprintf("%s: %s", v.Label, formatValue(v.Value, v.Unit))
}

func tokenButtonText(e domain.WatchEntry) string {
	state := "OFF"
	if e.Active {
		state = "ON"
	}
	return fmt.Sprintf("%s : %s", e.TokenID, state)
}

func activatedText(token string, active bool) string {
	if active {
		return token + " activated"
	}
	return token + " deactivated"
}

func formatAlerts(recs []*domain.AlertRecord) string {
	if len(recs) == 0 {
		return textNoAlerts
	}

	var sb strings.Builder
	sb.WriteString("Recent alerts:\n")
	for _, r := range recs {
		status := "✅"
		if !r.Delivered {
			status = "⚠️"
		}
		ts := time.UnixMilli(r.CreatedAt).UTC().Format("01-02 15:04:05")
		fmt.Fprintf(&sb, "%s %s [%s] %s via %s\n", status, ts, r.Kind, r.TokenID, r.Sink)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatStats(s *domain.TokenSummary) string {
	last := "never"
	if s.LastObserved > 0 {
		last = time.UnixMilli(s.LastObserved).UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("📈 %s\nSwaps seen: %d\nAlerts raised: %d\nVolume: %.2f SOL\nLast swap: %s",
		s.TokenID, s.Swaps, s.Alerts, s.TotalSOL, last)
}
