// Package calculator implements the pure split-ratio and debt arithmetic.
// It has no storage or network dependencies; callers fetch inputs and pass
// them in as values.
package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
)

var (
	// ErrBadPercentages is returned when manual split percentages do not sum
	// to 100 within the 0.01 tolerance.
	ErrBadPercentages = errors.New("manual split percentages must sum to 100")
)

var (
	hundred      = decimal.NewFromInt(100)
	pctTolerance = decimal.NewFromFloat(0.01)
)

// MemberIncome pairs a member with their declared periodic income.
// Income is 0 when the member has none declared.
type MemberIncome struct {
	MemberID string
	Income   decimal.Decimal
}

// CalculateRatios produces the percentage of a shared expense owed by each
// member.
//
// With SplitManual, percentages come directly from the settings; income is
// carried for display only. With SplitAutomatic, each member's percentage is
// income / total income × 100; when total income is zero every member gets an
// equal share. A household with a single member yields one 100% entry.
//
// This is a pure function: no side effects, no storage access.
func CalculateRatios(settings models.SplitSettings, members []MemberIncome) ([]models.MemberRatio, error) {
	if len(members) == 0 {
		return nil, nil
	}

	if settings.Method == models.SplitManual {
		return manualRatios(settings, members)
	}
	return automaticRatios(members), nil
}

func manualRatios(settings models.SplitSettings, members []MemberIncome) ([]models.MemberRatio, error) {
	ratios := make([]models.MemberRatio, 0, len(members))
	sum := decimal.Zero
	for _, m := range members {
		pct := settings.ManualRatios[m.MemberID] // zero if unconfigured
		sum = sum.Add(pct)
		ratios = append(ratios, models.MemberRatio{
			MemberID:   m.MemberID,
			Percentage: pct,
			Income:     m.Income,
		})
	}
	if sum.Sub(hundred).Abs().GreaterThan(pctTolerance) {
		return nil, ErrBadPercentages
	}
	return ratios, nil
}

func automaticRatios(members []MemberIncome) []models.MemberRatio {
	total := decimal.Zero
	for _, m := range members {
		total = total.Add(m.Income)
	}

	ratios := make([]models.MemberRatio, 0, len(members))
	if total.IsZero() {
		// No declared income anywhere: fall back to an equal split.
		equal := hundred.Div(decimal.NewFromInt(int64(len(members))))
		for _, m := range members {
			ratios = append(ratios, models.MemberRatio{
				MemberID:   m.MemberID,
				Percentage: equal,
				Income:     m.Income,
			})
		}
		return ratios
	}

	for _, m := range members {
		ratios = append(ratios, models.MemberRatio{
			MemberID:   m.MemberID,
			Percentage: m.Income.Div(total).Mul(hundred),
			Income:     m.Income,
		})
	}
	return ratios
}

// ValidateManualRatios checks that a manual ratio set sums to 100 within the
// 0.01 tolerance. Used by the settings-update command before persisting.
func ValidateManualRatios(ratios map[string]decimal.Decimal) error {
	sum := decimal.Zero
	for _, pct := range ratios {
		sum = sum.Add(pct)
	}
	if sum.Sub(hundred).Abs().GreaterThan(pctTolerance) {
		return ErrBadPercentages
	}
	return nil
}

// SplitAmount computes a single member's share of an expense, rounded
// half-away-from-zero to 2 decimals. The rounding remainder is deliberately
// not redistributed: each split stays exactly round(amount × pct / 100), so
// the sum of all splits may drift from the exact non-payer share by under a
// cent per split.
func SplitAmount(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Div(hundred).Round(2)
}
