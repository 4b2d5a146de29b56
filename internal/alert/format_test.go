package alert

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"solana-swap-watch/internal/domain"
)

func TestNewSwapAlert(t *testing.T) {
	a := NewSwapAlert("TokA", decimal.RequireFromString("1.5"))

	assert.Equal(t, "🔍 Swap detected on TokA\nAmount: 1.50 SOL", a.Text)
	assert.Equal(t, domain.AlertKindSwap, a.Kind)
	assert.Equal(t, "TokA", a.TokenID)
	assert.NotEmpty(t, a.ID)
	assert.NotZero(t, a.CreatedAt)
}

func TestNewSwapAlert_Rounding(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0.4", "0.40"},
		{"2.005", "2.01"},
		{"12.344", "12.34"},
		{"1000", "1000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			a := NewSwapAlert("T", decimal.RequireFromString(tt.amount))
			assert.Equal(t, "🔍 Swap detected on T\nAmount: "+tt.want+" SOL", a.Text)
		})
	}
}

func TestNewSimulatedAlert(t *testing.T) {
	a := NewSimulatedAlert("TokB", 6.5)

	want := "🔍 Simulated opportunity found on TokB (test mode)\n" +
		"🥪 (Test) Frontrun/backrun executed for TokB – simulated profit: 6.50 $"
	assert.Equal(t, want, a.Text)
	assert.Equal(t, domain.AlertKindSimulated, a.Kind)
	assert.Contains(t, a.Text, "test mode")
}

func TestAlertIDsAreUnique(t *testing.T) {
	a := NewSimulatedAlert("T", 5)
	b := NewSimulatedAlert("T", 5)
	assert.NotEqual(t, a.ID, b.ID)
}
