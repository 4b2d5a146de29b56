package domain

// WatchEntry is a watched token and its alerting status.
type WatchEntry struct {
	TokenID string // token mint address, unique in the registry
	Active  bool   // alerts and evaluation enabled
}
