package models

import "github.com/shopspring/decimal"

// SplitMethod selects how shared expenses divide among members.
type SplitMethod string

const (
	// SplitAutomatic divides proportionally to each member's declared income.
	SplitAutomatic SplitMethod = "automatic"

	// SplitManual uses the household's configured percentages.
	SplitManual SplitMethod = "manual"
)

// SplitSettings holds the per-household split configuration.
// There is exactly one settings row per household. It is mutated only by the
// settings-update command and passed into the ratio calculator as a value,
// never fetched ad hoc by the calculator itself.
type SplitSettings struct {
	// HouseholdID identifies the household these settings belong to.
	HouseholdID string

	// Method is SplitAutomatic or SplitManual.
	Method SplitMethod

	// ManualRatios maps member ID to target percentage. Only consulted when
	// Method is SplitManual; percentages must sum to 100 within 0.01.
	ManualRatios map[string]decimal.Decimal

	// UpdatedAt is the Unix timestamp of the last settings change.
	UpdatedAt int64
}

// MemberRatio is one member's share of a shared expense, as produced by the
// split ratio calculator.
type MemberRatio struct {
	// MemberID identifies the member.
	MemberID string

	// Percentage is this member's share of the expense, 0–100.
	Percentage decimal.Decimal

	// Income is the member's declared periodic income, carried for display.
	Income decimal.Decimal
}
