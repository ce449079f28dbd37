package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
)

// DebtBalance is the net obligation between two members.
// The sign convention follows the argument order of NetDebt: a positive
// NetBalance means userA owes userB.
type DebtBalance struct {
	// NetBalance is Σ(A owes B) − Σ(B owes A), rounded to 2 decimals.
	NetBalance decimal.Decimal

	// WhoOwes / WhoIsOwed name the debtor and creditor. Both are empty when
	// the pair is even.
	WhoOwes   string
	WhoIsOwed string

	// Amount is the absolute value of NetBalance.
	Amount decimal.Decimal
}

// NetDebt folds unpaid splits into a single net balance between userA and
// userB. Paid splits and splits involving other members are ignored.
//
// The result is antisymmetric: swapping the arguments negates NetBalance and
// swaps WhoOwes/WhoIsOwed.
func NetDebt(splits []models.ExpenseSplit, userA, userB string) DebtBalance {
	net := decimal.Zero
	for _, s := range splits {
		if s.IsPaid {
			continue
		}
		switch {
		case s.OwerUserID == userA && s.OwedToUserID == userB:
			net = net.Add(s.SplitAmount)
		case s.OwerUserID == userB && s.OwedToUserID == userA:
			net = net.Sub(s.SplitAmount)
		}
	}
	net = net.Round(2)

	b := DebtBalance{NetBalance: net, Amount: net.Abs()}
	switch {
	case net.IsPositive():
		b.WhoOwes, b.WhoIsOwed = userA, userB
	case net.IsNegative():
		b.WhoOwes, b.WhoIsOwed = userB, userA
	}
	return b
}

// DirectionSummary buckets one member's unpaid obligations by direction.
type DirectionSummary struct {
	// YouOwe are the unpaid splits where the member is the ower.
	YouOwe []models.ExpenseSplit

	// YouAreOwed are the unpaid splits owed to the member.
	YouAreOwed []models.ExpenseSplit

	// YouOweTotal and YouAreOwedTotal are the respective sums.
	YouOweTotal     decimal.Decimal
	YouAreOwedTotal decimal.Decimal

	// Net is YouOweTotal − YouAreOwedTotal, rounded to 2 decimals.
	// Positive means the member owes overall, matching NetDebt's sign
	// convention with the member as first argument.
	Net decimal.Decimal
}

// BucketByDirection splits the given unpaid splits into "you owe" and
// "you are owed" lists for userID, with their sums and the net figure.
func BucketByDirection(splits []models.ExpenseSplit, userID string) DirectionSummary {
	sum := DirectionSummary{
		YouOweTotal:     decimal.Zero,
		YouAreOwedTotal: decimal.Zero,
	}
	for _, s := range splits {
		if s.IsPaid {
			continue
		}
		switch userID {
		case s.OwerUserID:
			sum.YouOwe = append(sum.YouOwe, s)
			sum.YouOweTotal = sum.YouOweTotal.Add(s.SplitAmount)
		case s.OwedToUserID:
			sum.YouAreOwed = append(sum.YouAreOwed, s)
			sum.YouAreOwedTotal = sum.YouAreOwedTotal.Add(s.SplitAmount)
		}
	}
	sum.Net = sum.YouOweTotal.Sub(sum.YouAreOwedTotal).Round(2)
	return sum
}
