package models

import "github.com/shopspring/decimal"

// ExpenseSplit is the atomic unit of obligation: one member owes another a
// specific amount tied to one shared transaction.
//
// Splits exist only for members who are not the payer of the originating
// transaction. They are created in one batch alongside the transaction,
// flipped to paid only by the settlement engine, and deleted only when the
// owning transaction is deleted or un-shared.
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// TransactionID is the shared expense this split derives from.
	TransactionID string

	// OwerUserID is the member who owes.
	OwerUserID string

	// OwedToUserID is the member who is owed (the transaction's payer).
	OwedToUserID string

	// SplitAmount is the owed amount, rounded to 2 decimals.
	SplitAmount decimal.Decimal

	// SplitPercentage is the ratio this split was computed from.
	SplitPercentage decimal.Decimal

	// IsPaid reports whether this obligation has been settled.
	// Monotonic: once true it never reverts.
	IsPaid bool

	// CreatedAt is the Unix timestamp when the split was created.
	CreatedAt int64
}
