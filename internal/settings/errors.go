package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrNegative is returned for values below zero.
	ErrNegative = errors.New("value must not be negative")

	// ErrNotFinite is returned for NaN and infinities.
	ErrNotFinite = errors.New("value must be a finite number")
)

// ParseError reports user input that could not be stored as a setting.
// The previous value is left untouched.
type ParseError struct {
	Name  Name
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Input, e.Name, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
