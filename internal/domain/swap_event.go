package domain

import "github.com/shopspring/decimal"

// EventTypeSwap is the webhook event type tag for swaps.
const EventTypeSwap = "SWAP"

// LamportsPerSOL converts native input amounts (lamports) to SOL.
const LamportsPerSOL = 1_000_000_000

// SwapEvent represents one event taken from a webhook delivery.
// Only Type, TokenID and NativeInputLamports take part in alert filtering.
type SwapEvent struct {
	Type                string          // event type tag, EventTypeSwap for swaps
	TokenID             string          // token mint address (empty if absent)
	NativeInputLamports decimal.Decimal // raw native input amount, zero if absent
	Signature           string          // transaction signature (optional)
	Slot                int64           // Solana slot number (optional)
	Timestamp           int64           // Unix timestamp in milliseconds (optional)
}

// IsSwap reports whether the event carries the swap type tag.
func (e *SwapEvent) IsSwap() bool {
	return e.Type == EventTypeSwap
}

// AmountSOL returns the native input amount normalised to SOL.
func (e *SwapEvent) AmountSOL() decimal.Decimal {
	return e.NativeInputLamports.Shift(-9)
}
