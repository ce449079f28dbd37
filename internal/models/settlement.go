package models

import "github.com/shopspring/decimal"

// Settlement is an immutable record of one payoff event: a payer clears some
// or all of what they owe a receiver in a single operation.
//
// Settlements are append-only history. They are created exactly once by the
// settlement engine and never mutated or deleted afterwards.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// HouseholdID is the household this settlement belongs to.
	HouseholdID string

	// PayerUserID is the member who paid off their debt.
	PayerUserID string

	// ReceiverUserID is the member who was owed.
	ReceiverUserID string

	// Amount is the total moved from payer to receiver.
	Amount decimal.Decimal

	// PaymentMethod is a free-form label for how the payment was made
	// (e.g. "cash", "bank transfer").
	PaymentMethod string

	// CategoryID is the optional budget category for the payer's synthesized
	// payment expense. Empty means no expense was synthesized.
	CategoryID string

	// SettledExpenses lists the IDs of every transaction touched by this
	// settlement. Computed before the commit, never appended after the fact.
	SettledExpenses []string

	// SettledAt is the Unix timestamp of the payoff.
	SettledAt int64

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}
