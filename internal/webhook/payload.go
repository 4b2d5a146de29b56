package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"solana-swap-watch/internal/domain"
)

// ErrMalformedEvent is returned for events that cannot be decoded.
var ErrMalformedEvent = errors.New("malformed event")

// rawEvent is the subset of an enhanced-transaction webhook event we read.
type rawEvent struct {
	Type              string          `json:"type"`
	Token             *rawToken       `json:"token"`
	NativeInputAmount json.RawMessage `json:"nativeInputAmount"`

	// Metadata only; read best effort.
	Signature json.RawMessage `json:"signature"`
	Slot      json.RawMessage `json:"slot"`
	Timestamp json.RawMessage `json:"timestamp"` // Unix seconds
}

type rawToken struct {
	Mint string `json:"mint"`
}

// DecodeEvent decodes one webhook event. A missing token or amount is not
// an error; a token or amount of the wrong JSON type is. Signature, slot and
// timestamp never reject an event: unreadable values decode as zero.
func DecodeEvent(raw json.RawMessage) (domain.SwapEvent, error) {
	var re rawEvent
	if err := json.Unmarshal(raw, &re); err != nil {
		return domain.SwapEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	amount, err := parseLamports(re.NativeInputAmount)
	if err != nil {
		return domain.SwapEvent{}, fmt.Errorf("%w: nativeInputAmount: %v", ErrMalformedEvent, err)
	}

	ev := domain.SwapEvent{
		Type:                re.Type,
		NativeInputLamports: amount,
		Signature:           optionalString(re.Signature),
		Slot:                optionalInt(re.Slot),
		Timestamp:           optionalMillis(re.Timestamp),
	}
	if re.Token != nil {
		ev.TokenID = re.Token.Mint
	}
	return ev, nil
}

// DecodeBatch splits a webhook body into its raw events.
func DecodeBatch(body []byte) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decode webhook batch: %w", err)
	}
	return raws, nil
}

// parseLamports accepts a JSON number, a numeric string or null.
func parseLamports(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Decimal{}, err
		}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount %s", d)
	}
	return d, nil
}

func optionalString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// optionalDecimal reads a JSON number or numeric string, or returns false.
func optionalDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Decimal{}, false
	}
	text := string(raw)
	if raw[0] == '"' && json.Unmarshal(raw, &text) != nil {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func optionalInt(raw json.RawMessage) int64 {
	d, ok := optionalDecimal(raw)
	if !ok {
		return 0
	}
	return d.IntPart()
}

// optionalMillis converts Unix seconds, possibly fractional, to milliseconds.
func optionalMillis(raw json.RawMessage) int64 {
	d, ok := optionalDecimal(raw)
	if !ok {
		return 0
	}
	return d.Shift(3).IntPart()
}
