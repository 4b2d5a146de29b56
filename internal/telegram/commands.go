package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"solana-swap-watch/internal/control"
	"solana-swap-watch/internal/settings"
	"solana-swap-watch/internal/solana"
)

func (b *Bot) handleCommand(ctx context.Context, chatID int64, cmd, args string) {
	// Any command abandons a pending setting edit.
	if cmd != "cancel" {
		if err := b.sessions.Clear(ctx, chatID); err != nil {
			b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("clear dialog state")
		}
	}

	switch cmd {
	case "start":
		b.replyWithMarkup(chatID, textMenu, mainMenu(b.svc.ListTokens()))
	case "help":
		b.reply(chatID, textHelp)
	case "add":
		b.cmdAdd(ctx, chatID, args)
	case "delete", "remove":
		b.cmdDelete(chatID, args)
	case "reset":
		b.svc.Reset()
		b.reply(chatID, textReset)
	case "settings":
		b.replyWithMarkup(chatID, textSettings, settingsMenu(b.svc.Settings()))
	case "alerts":
		b.cmdAlerts(ctx, chatID)
	case "stats":
		b.cmdStats(ctx, chatID, args)
	case "cancel":
		b.cmdCancel(ctx, chatID)
	default:
		b.reply(chatID, textUnknown)
	}
}

// singleArg returns the only argument, or false when there is not exactly one.
func singleArg(args string) (string, bool) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return "", false
	}
	return fields[0], true
}

func (b *Bot) cmdAdd(ctx context.Context, chatID int64, args string) {
	token, ok := singleArg(args)
	if !ok {
		b.reply(chatID, usageAdd)
		return
	}

	addr, err := solana.ParseAddress(token)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ Invalid token address: %s", token))
		return
	}

	if _, err := b.svc.AddToken(addr.String()); err != nil {
		b.reply(chatID, fmt.Sprintf("❌ Could not add token: %v", err))
		return
	}

	lines := []string{"✅ Token added to watch list: " + addr.String()}
	for _, w := range b.addressWarnings(ctx, addr) {
		lines = append(lines, "⚠️ "+w)
	}
	b.reply(chatID, strings.Join(lines, "\n"))
}

// addressWarnings checks the curve locally and, when an RPC client is
// configured, the account on chain. Warnings never block the add.
func (b *Bot) addressWarnings(ctx context.Context, addr solana.Address) []string {
	if b.rpc == nil {
		if !addr.IsOnCurve() {
			return []string{"address is off the ed25519 curve (program-derived)"}
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	info, err := solana.InspectMint(ctx, b.rpc, addr)
	if err != nil {
		b.logger.Warn().Err(err).Str("token", addr.String()).Msg("mint inspection failed")
		w := []string{"could not verify the token on chain"}
		if !info.OnCurve {
			w = append(w, "address is off the ed25519 curve (program-derived)")
		}
		return w
	}
	return info.Warnings()
}

func (b *Bot) cmdDelete(chatID int64, args string) {
	token, ok := singleArg(args)
	if !ok {
		b.reply(chatID, usageDelete)
		return
	}

	if err := b.svc.RemoveToken(token); err != nil {
		if errors.Is(err, control.ErrUnknownToken) {
			b.reply(chatID, "❌ Token not found: "+token)
			return
		}
		b.reply(chatID, fmt.Sprintf("❌ Could not remove token: %v", err))
		return
	}
	b.reply(chatID, "🗑 Token removed: "+token)
}

func (b *Bot) cmdAlerts(ctx context.Context, chatID int64) {
	recs, err := b.svc.RecentAlerts(ctx, DefaultRecentLimit)
	switch {
	case errors.Is(err, control.ErrUnavailable):
		b.reply(chatID, textNoJournal)
	case err != nil:
		b.logger.Warn().Err(err).Msg("recent alerts")
		b.reply(chatID, "❌ Could not load alerts.")
	default:
		b.reply(chatID, formatAlerts(recs))
	}
}

func (b *Bot) cmdStats(ctx context.Context, chatID int64, args string) {
	token, ok := singleArg(args)
	if !ok {
		b.reply(chatID, usageStats)
		return
	}

	sum, err := b.svc.TokenStats(ctx, token)
	switch {
	case errors.Is(err, control.ErrUnavailable):
		b.reply(chatID, textNoStats)
	case err != nil:
		b.logger.Warn().Err(err).Str("token", token).Msg("token stats")
		b.reply(chatID, "❌ Could not load statistics.")
	default:
		b.reply(chatID, formatStats(sum))
	}
}

func (b *Bot) cmdCancel(ctx context.Context, chatID int64) {
	state, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("load dialog state")
	}
	if state.Setting == "" {
		b.reply(chatID, textNothingToStop)
		return
	}
	if err := b.sessions.Clear(ctx, chatID); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("clear dialog state")
	}
	b.reply(chatID, textCancelled)
}

// applySetting finishes the edit dialog with the operator's value.
// The dialog ends whether or not the value parses.
func (b *Bot) applySetting(ctx context.Context, chatID int64, name, raw string) {
	if err := b.sessions.Clear(ctx, chatID); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("clear dialog state")
	}

	view, err := b.svc.EditSetting(name, raw)
	var perr *settings.ParseError
	switch {
	case errors.As(err, &perr):
		b.reply(chatID, textInvalidInput)
	case err != nil:
		b.reply(chatID, fmt.Sprintf("❌ %v", err))
	default:
		b.reply(chatID, fmt.Sprintf("✅ Setting updated: %s = %s", view.Label, formatValue(view.Value, view.Unit)))
	}
}
