package solana

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ErrInvalidAddress is returned for strings that are not a base58 public key.
var ErrInvalidAddress = errors.New("invalid solana address")

// AddressLen is the byte length of a Solana public key.
const AddressLen = 32

// Address is a Solana public key.
type Address [AddressLen]byte

// ParseAddress decodes a base58 public key.
func ParseAddress(s string) (Address, error) {
	var a Address

	raw, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != AddressLen {
		return a, fmt.Errorf("%w: decoded to %d bytes, want %d", ErrInvalidAddress, len(raw), AddressLen)
	}

	copy(a[:], raw)
	return a, nil
}

// String returns the base58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsOnCurve reports whether the key is a valid ed25519 point.
// Program-derived addresses are off the curve.
func (a Address) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}
