// Package service implements the request/response operations exposed to the
// UI layer: split creation and queries, debt aggregation, settings updates,
// settlements, and member sessions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/calculator"
	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

// SplitService implements the expense-split ledger: ratio calculation on top
// of the household directory, split creation, projections, and mark-paid.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// CalculateRatios produces the current split percentage for every active
// member of the household. Households without stored settings default to the
// automatic (income-proportional) method.
func (s *SplitService) CalculateRatios(ctx context.Context, householdID string) ([]models.MemberRatio, error) {
	settings, err := s.store.GetSplitSettings(ctx, householdID)
	if errors.Is(err, storage.ErrNotFound) {
		settings = &models.SplitSettings{HouseholdID: householdID, Method: models.SplitAutomatic}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load split settings: %w", err)
	}

	members, err := s.store.ListActiveMembers(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	incomes := make([]calculator.MemberIncome, len(members))
	for i, m := range members {
		income, err := s.store.LatestIncome(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up income: %w", err)
		}
		incomes[i] = calculator.MemberIncome{MemberID: m.ID, Income: income}
	}

	return calculator.CalculateRatios(*settings, incomes)
}

// CreateExpenseSplits computes and persists the obligations for one shared
// expense. The payer is filtered out; each remaining member owes
// round(amount × percentage / 100, 2). A household where every ratio belongs
// to the payer (solo household) yields no splits and performs no writes.
//
// Split creation is exactly-once per transaction: a second call fails with
// storage.ErrSplitsExist.
func (s *SplitService) CreateExpenseSplits(ctx context.Context, transactionID string, amount decimal.Decimal, householdID, paidByUserID string) ([]models.ExpenseSplit, error) {
	ratios, err := s.CalculateRatios(ctx, householdID)
	if err != nil {
		return nil, err
	}

	var splits []*models.ExpenseSplit
	for _, r := range ratios {
		if r.MemberID == paidByUserID {
			continue
		}
		splits = append(splits, &models.ExpenseSplit{
			TransactionID:   transactionID,
			OwerUserID:      r.MemberID,
			OwedToUserID:    paidByUserID,
			SplitAmount:     calculator.SplitAmount(amount, r.Percentage),
			SplitPercentage: r.Percentage,
		})
	}
	if len(splits) == 0 {
		return nil, nil
	}

	if err := s.store.CreateExpenseSplits(ctx, transactionID, splits); err != nil {
		return nil, err
	}

	created := make([]models.ExpenseSplit, len(splits))
	for i, split := range splits {
		created[i] = *split
	}
	return created, nil
}

// CreateSharedExpense persists a shared transaction and its splits together.
// If split creation fails, the freshly created transaction is removed again
// so no shared expense exists without its obligations.
func (s *SplitService) CreateSharedExpense(ctx context.Context, tx *models.Transaction) ([]models.ExpenseSplit, error) {
	tx.IsShared = true
	if tx.Type == "" {
		tx.Type = models.TransactionExpense
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	splits, err := s.CreateExpenseSplits(ctx, tx.ID, tx.Amount, tx.HouseholdID, tx.PaidByUserID)
	if err != nil {
		if derr := s.store.DeleteTransaction(ctx, tx.ID); derr != nil {
			slog.Error("failed to remove transaction after split creation failure",
				"transaction_id", tx.ID, "error", derr)
		}
		return nil, err
	}
	return splits, nil
}

// DeleteExpenseSplits removes all splits for a transaction. Invoked when a
// shared expense is deleted or un-shared.
func (s *SplitService) DeleteExpenseSplits(ctx context.Context, transactionID string) error {
	return s.store.DeleteExpenseSplits(ctx, transactionID)
}

// DeleteSharedExpense removes a transaction together with its splits.
func (s *SplitService) DeleteSharedExpense(ctx context.Context, transactionID string) error {
	return s.store.DeleteTransaction(ctx, transactionID)
}

// GetSplitsForTransaction returns all splits of a transaction.
func (s *SplitService) GetSplitsForTransaction(ctx context.Context, transactionID string) ([]models.ExpenseSplit, error) {
	return s.store.GetSplitsForTransaction(ctx, transactionID)
}

// GetUnpaidSplitsForUser returns the unpaid splits where the user owes.
func (s *SplitService) GetUnpaidSplitsForUser(ctx context.Context, userID string) ([]models.ExpenseSplit, error) {
	return s.store.GetUnpaidSplitsForUser(ctx, userID)
}

// GetUnpaidSplitsOwedToUser returns the unpaid splits owed to the user.
func (s *SplitService) GetUnpaidSplitsOwedToUser(ctx context.Context, userID string) ([]models.ExpenseSplit, error) {
	return s.store.GetUnpaidSplitsOwedToUser(ctx, userID)
}

// MarkSplitAsPaid flips a single split to paid. Observably idempotent.
// Outside of tests this is only expected to be called by the settlement
// engine, which claims splits through its own atomic commit instead.
func (s *SplitService) MarkSplitAsPaid(ctx context.Context, splitID string) error {
	return s.store.MarkSplitPaid(ctx, splitID)
}
