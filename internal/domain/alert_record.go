package domain

// AlertKind distinguishes alerts raised from real swaps and simulated signals.
type AlertKind string

const (
	AlertKindSwap      AlertKind = "swap"
	AlertKindSimulated AlertKind = "simulated"
)

// String returns the string representation of AlertKind.
func (k AlertKind) String() string {
	return string(k)
}

// AlertRecord is a journal entry for one alert delivery attempt.
// Corresponds to alert_journal table in PostgreSQL.
type AlertRecord struct {
	AlertID   string    // uuid assigned when the alert was built
	Kind      AlertKind // swap | simulated
	TokenID   string    // token mint address
	Text      string    // message text as delivered
	Sink      string    // delivery backend name
	Delivered bool      // true if the sink accepted the message
	Error     string    // delivery error, empty on success
	CreatedAt int64     // alert creation timestamp (ms)
	SentAt    int64     // delivery attempt timestamp (ms)
}
