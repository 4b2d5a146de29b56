package solana

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// MintInfo summarises what the chain knows about a token address.
type MintInfo struct {
	Address  Address
	OnCurve  bool   // false for program-derived addresses
	Exists   bool   // account found on chain
	Owner    string // owning program, empty if not found
	IsToken  bool   // owned by an SPL token program
	Supply   decimal.Decimal
	Decimals uint8
}

// Warnings lists human-readable concerns about the address.
func (m MintInfo) Warnings() []string {
	var w []string
	if !m.OnCurve {
		w = append(w, "address is off the ed25519 curve (program-derived)")
	}
	if !m.Exists {
		w = append(w, "account not found on chain")
	} else if !m.IsToken {
		w = append(w, fmt.Sprintf("account is owned by %s, not a token program", m.Owner))
	}
	return w
}

// InspectMint looks up addr on chain. Supply is only fetched for token mints.
func InspectMint(ctx context.Context, client RPCClient, addr Address) (MintInfo, error) {
	info := MintInfo{Address: addr, OnCurve: addr.IsOnCurve()}

	acct, err := client.GetAccountInfo(ctx, addr.String())
	if err != nil {
		return info, fmt.Errorf("get account info: %w", err)
	}
	if acct == nil {
		return info, nil
	}

	info.Exists = true
	info.Owner = acct.Owner
	info.IsToken = acct.Owner == TokenProgramID || acct.Owner == Token2022ProgramID
	if !info.IsToken {
		return info, nil
	}

	supply, err := client.GetTokenSupply(ctx, addr.String())
	if err != nil {
		return info, fmt.Errorf("get token supply: %w", err)
	}
	info.Supply = supply.Amount
	info.Decimals = supply.Decimals
	return info, nil
}
