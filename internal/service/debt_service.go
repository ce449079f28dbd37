package service

import (
	"context"
	"fmt"

	"github.com/hauskasse/backend/internal/calculator"
	"github.com/hauskasse/backend/internal/storage"
)

// DebtService folds the ledger's unpaid splits into net balances and
// per-direction summaries. Read-only.
type DebtService struct {
	store storage.Store
}

// NewDebtService creates a new DebtService with the given storage backend.
func NewDebtService(store storage.Store) *DebtService {
	return &DebtService{store: store}
}

// CalculateDebtBalance computes the net balance between two members.
// Positive NetBalance means userA owes userB; swapping the arguments negates
// the balance and swaps the direction.
func (s *DebtService) CalculateDebtBalance(ctx context.Context, userA, userB string) (calculator.DebtBalance, error) {
	aOwesB, err := s.store.GetUnpaidSplitsBetween(ctx, userA, userB)
	if err != nil {
		return calculator.DebtBalance{}, fmt.Errorf("failed to load splits: %w", err)
	}
	bOwesA, err := s.store.GetUnpaidSplitsBetween(ctx, userB, userA)
	if err != nil {
		return calculator.DebtBalance{}, fmt.Errorf("failed to load splits: %w", err)
	}
	return calculator.NetDebt(append(aOwesB, bOwesA...), userA, userB), nil
}

// UnsettledExpensesByDirection buckets a member's unpaid obligations into
// "you owe" and "you are owed" lists with their sums and the net figure.
// The net equals CalculateDebtBalance for the same pair of members.
func (s *DebtService) UnsettledExpensesByDirection(ctx context.Context, userID string) (calculator.DirectionSummary, error) {
	owes, err := s.store.GetUnpaidSplitsForUser(ctx, userID)
	if err != nil {
		return calculator.DirectionSummary{}, fmt.Errorf("failed to load owed splits: %w", err)
	}
	owed, err := s.store.GetUnpaidSplitsOwedToUser(ctx, userID)
	if err != nil {
		return calculator.DirectionSummary{}, fmt.Errorf("failed to load owing splits: %w", err)
	}
	return calculator.BucketByDirection(append(owes, owed...), userID), nil
}
