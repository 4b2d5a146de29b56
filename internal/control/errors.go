package control

import "errors"

var (
	// ErrUnknownToken is returned when a token is not on the watch list.
	ErrUnknownToken = errors.New("unknown token")

	// ErrUnknownSetting is returned for a setting name outside the fixed set.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrEmptyToken is returned when a token identifier is blank.
	ErrEmptyToken = errors.New("empty token")

	// ErrUnavailable is returned when the backing store is not configured.
	ErrUnavailable = errors.New("not available")
)
