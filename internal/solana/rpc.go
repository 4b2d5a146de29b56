// Package solana validates token addresses and inspects mint accounts
// over the Solana JSON-RPC API.
package solana

import (
	"context"

	"github.com/shopspring/decimal"
)

// Token program owners.
const (
	TokenProgramID     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	Token2022ProgramID = "TokenzQdBNbLqP5VEhdkAs6EK2LvX4d5E8Gh5FGuX2i"
)

// RPCClient is the subset of the Solana RPC API used to inspect mints.
type RPCClient interface {
	// GetAccountInfo returns nil when the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenSupply returns the total supply of a mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error)
}

// AccountInfo is the on-chain state of an account.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Executable bool
}

// TokenSupply is the supply of a mint in UI units.
type TokenSupply struct {
	Amount   decimal.Decimal
	Decimals uint8
}
