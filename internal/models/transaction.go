package models

import "github.com/shopspring/decimal"

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Transaction represents a financial transaction.
//
// A shared transaction (IsShared true) spawns expense splits for every
// non-payer member. Its Amount only ever decreases, by exactly the sum of the
// split amounts that transition to paid in one settlement. When every split is
// paid the transaction is stamped settled with the closing settlement's ID.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// HouseholdID is the household the transaction belongs to.
	HouseholdID string

	// PaidByUserID is the member who paid.
	PaidByUserID string

	// Description is the human-readable label.
	Description string

	// Amount is the transaction amount. For shared transactions this is the
	// outstanding amount, shrunk by settlements.
	Amount decimal.Decimal

	// Type is TransactionExpense or TransactionIncome.
	Type TransactionType

	// CategoryID is the optional budget category. Empty means uncategorized.
	CategoryID string

	// IsShared reports whether the expense divides among household members.
	IsShared bool

	// Settled is true once every split of this transaction has been paid.
	Settled bool

	// SettledAt is the Unix timestamp when the transaction was fully settled.
	// Zero while unsettled.
	SettledAt int64

	// SettlementID is the settlement that closed this transaction.
	// Empty while unsettled.
	SettlementID string

	// Date is the Unix timestamp of when the expense occurred.
	Date int64

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}
