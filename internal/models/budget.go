package models

import "github.com/shopspring/decimal"

// Budget is a per-member, per-category spent aggregate for one budget period.
//
// SpentAmount is a derived projection of transaction history. The settlement
// engine reduces it best-effort when a settled transaction falls inside the
// owner's current period; a failed update is logged and swallowed because the
// aggregate can always be recomputed.
type Budget struct {
	// ID is the unique identifier for the budget row (UUID format).
	ID string

	// MemberID is the member this budget belongs to.
	MemberID string

	// CategoryID is the budget category.
	CategoryID string

	// PeriodStart is the Unix timestamp of the period's first instant.
	PeriodStart int64

	// PeriodEnd is the Unix timestamp of the period's last instant.
	PeriodEnd int64

	// SpentAmount is the aggregated spending in this period.
	SpentAmount decimal.Decimal
}
