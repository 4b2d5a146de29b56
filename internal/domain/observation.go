package domain

// SwapObservation is an analytics row for one SWAP event seen on the webhook.
// Corresponds to swap_observations table in ClickHouse.
type SwapObservation struct {
	TokenID    string  // token mint address
	Signature  string  // transaction signature (may be empty)
	Slot       int64   // Solana slot number (0 if unknown)
	AmountSOL  float64 // native input amount in SOL
	Matched    bool    // true if the event produced an alert
	ObservedAt int64   // receipt timestamp (ms)
}

// TokenSummary aggregates observations for a single token.
type TokenSummary struct {
	TokenID      string
	Swaps        int64   // total SWAP events observed
	Alerts       int64   // events that produced an alert
	TotalSOL     float64 // sum of native input amounts
	LastObserved int64   // latest ObservedAt (ms), 0 if none
}
