package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"solana-swap-watch/internal/domain"
)

// NewSwapAlert builds the alert for a watched swap above the threshold.
func NewSwapAlert(tokenID string, amountSOL decimal.Decimal) Alert {
	text := fmt.Sprintf("🔍 Swap detected on %s\nAmount: %s SOL", tokenID, amountSOL.StringFixed(2))
	return newAlert(domain.AlertKindSwap, tokenID, text)
}

// NewSimulatedAlert builds the alert for a simulated opportunity.
// The text always carries the test-mode marker: the profit is synthetic.
func NewSimulatedAlert(tokenID string, profit float64) Alert {
	text := fmt.Sprintf(
		"🔍 Simulated opportunity found on %s (test mode)\n"+
			"🥪 (Test) Frontrun/backrun executed for %s – simulated profit: %.2f $",
		tokenID, tokenID, profit,
	)
	return newAlert(domain.AlertKindSimulated, tokenID, text)
}

func newAlert(kind domain.AlertKind, tokenID, text string) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Kind:      kind,
		TokenID:   tokenID,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}
