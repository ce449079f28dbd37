package models

import "github.com/shopspring/decimal"

// Account is a member-owned wallet with a mutable balance.
//
// Within this subsystem only the settlement engine writes Balance, moving the
// settlement amount from payer to receiver. Balances may go negative: the
// account is a wallet of record, not a strict ledger, so overdraft is allowed.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// OwnerID is the member who owns this account.
	OwnerID string

	// Name is the display name (e.g. "Joint checking", "Cash").
	Name string

	// Balance is the current account balance.
	Balance decimal.Decimal

	// Currency is the ISO 4217 currency code (e.g. "CHF").
	Currency string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
