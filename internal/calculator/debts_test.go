package calculator

import (
	"testing"

	"github.com/hauskasse/backend/internal/models"
)

func TestNetDebt(t *testing.T) {
	splits := []models.ExpenseSplit{
		{ID: "s1", OwerUserID: "anna", OwedToUserID: "ben", SplitAmount: dec("40.00")},
		{ID: "s2", OwerUserID: "ben", OwedToUserID: "anna", SplitAmount: dec("15.00")},
		{ID: "s3", OwerUserID: "anna", OwedToUserID: "ben", SplitAmount: dec("10.00"), IsPaid: true},
		{ID: "s4", OwerUserID: "anna", OwedToUserID: "cleo", SplitAmount: dec("99.00")},
	}

	t.Run("nets opposing unpaid splits", func(t *testing.T) {
		b := NetDebt(splits, "anna", "ben")
		if !b.NetBalance.Equal(dec("25.00")) {
			t.Errorf("NetBalance = %v, want 25.00", b.NetBalance)
		}
		if b.WhoOwes != "anna" || b.WhoIsOwed != "ben" {
			t.Errorf("direction = %s owes %s, want anna owes ben", b.WhoOwes, b.WhoIsOwed)
		}
		if !b.Amount.Equal(dec("25.00")) {
			t.Errorf("Amount = %v, want 25.00", b.Amount)
		}
	})

	t.Run("is antisymmetric", func(t *testing.T) {
		ab := NetDebt(splits, "anna", "ben")
		ba := NetDebt(splits, "ben", "anna")
		if !ab.NetBalance.Equal(ba.NetBalance.Neg()) {
			t.Errorf("NetBalance not negated: %v vs %v", ab.NetBalance, ba.NetBalance)
		}
		if !ab.Amount.Equal(ba.Amount) {
			t.Errorf("Amount differs: %v vs %v", ab.Amount, ba.Amount)
		}
		if ab.WhoOwes != ba.WhoIsOwed || ab.WhoIsOwed != ba.WhoOwes {
			t.Error("WhoOwes/WhoIsOwed not swapped")
		}
	})

	t.Run("even pair has no direction", func(t *testing.T) {
		even := []models.ExpenseSplit{
			{OwerUserID: "anna", OwedToUserID: "ben", SplitAmount: dec("20.00")},
			{OwerUserID: "ben", OwedToUserID: "anna", SplitAmount: dec("20.00")},
		}
		b := NetDebt(even, "anna", "ben")
		if !b.NetBalance.IsZero() {
			t.Errorf("NetBalance = %v, want 0", b.NetBalance)
		}
		if b.WhoOwes != "" || b.WhoIsOwed != "" {
			t.Errorf("direction should be empty, got %s owes %s", b.WhoOwes, b.WhoIsOwed)
		}
	})

	t.Run("paid splits are ignored", func(t *testing.T) {
		paid := []models.ExpenseSplit{
			{OwerUserID: "anna", OwedToUserID: "ben", SplitAmount: dec("40.00"), IsPaid: true},
		}
		b := NetDebt(paid, "anna", "ben")
		if !b.NetBalance.IsZero() {
			t.Errorf("NetBalance = %v, want 0", b.NetBalance)
		}
	})
}

func TestBucketByDirection(t *testing.T) {
	splits := []models.ExpenseSplit{
		{ID: "s1", OwerUserID: "anna", OwedToUserID: "ben", SplitAmount: dec("40.00")},
		{ID: "s2", OwerUserID: "ben", OwedToUserID: "anna", SplitAmount: dec("15.00")},
		{ID: "s3", OwerUserID: "anna", OwedToUserID: "ben", SplitAmount: dec("5.00"), IsPaid: true},
	}

	sum := BucketByDirection(splits, "anna")

	if len(sum.YouOwe) != 1 || sum.YouOwe[0].ID != "s1" {
		t.Errorf("YouOwe = %v, want [s1]", sum.YouOwe)
	}
	if len(sum.YouAreOwed) != 1 || sum.YouAreOwed[0].ID != "s2" {
		t.Errorf("YouAreOwed = %v, want [s2]", sum.YouAreOwed)
	}
	if !sum.YouOweTotal.Equal(dec("40.00")) {
		t.Errorf("YouOweTotal = %v, want 40.00", sum.YouOweTotal)
	}
	if !sum.YouAreOwedTotal.Equal(dec("15.00")) {
		t.Errorf("YouAreOwedTotal = %v, want 15.00", sum.YouAreOwedTotal)
	}
	if !sum.Net.Equal(dec("25.00")) {
		t.Errorf("Net = %v, want 25.00", sum.Net)
	}

	// The net figure must agree with the pairwise balance.
	b := NetDebt(splits, "anna", "ben")
	if !sum.Net.Equal(b.NetBalance) {
		t.Errorf("Net %v != NetDebt %v", sum.Net, b.NetBalance)
	}
}
