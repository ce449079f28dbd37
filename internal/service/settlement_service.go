package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

var (
	// ErrInvalidAmount is returned when a settlement amount is zero or negative.
	ErrInvalidAmount = errors.New("settlement amount must be positive")

	// ErrAccountOwnership is returned when an account is not owned by the
	// stated payer or receiver. Never silently corrected.
	ErrAccountOwnership = errors.New("account is not owned by the stated member")

	// ErrNoUnpaidSplits is returned when nothing is owed from payer to
	// receiver, or the selected split IDs match nothing unpaid.
	ErrNoUnpaidSplits = errors.New("no unpaid splits between payer and receiver")
)

// SettlementService is the settlement engine: it turns a payoff request into
// a precomputed change set and hands it to the store for one atomic commit.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given storage
// backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// CreateSettlementParams carries one payoff request.
type CreateSettlementParams struct {
	HouseholdID       string
	PayerID           string
	ReceiverID        string
	Amount            decimal.Decimal
	PayerAccountID    string
	ReceiverAccountID string
	PaymentMethod     string

	// CategoryID, when set, synthesizes an expense transaction for the payer
	// representing the real-world payment leaving their budget.
	CategoryID string

	// SelectedSplitIDs restricts the settlement to the intersection with the
	// payer's unpaid splits. Unmatched IDs are silently dropped. Empty means
	// settle everything owed.
	SelectedSplitIDs []string
}

// SettlementResult reports the outcome for UI confirmation. Balances echo the
// committed change set; storage is not re-read after the write.
type SettlementResult struct {
	SettlementID       string
	Amount             decimal.Decimal
	NewPayerBalance    decimal.Decimal
	NewReceiverBalance decimal.Decimal
	SplitsSettled      int
}

// CreateSettlement validates, builds the commit set, and applies it.
//
// Validation failures leave all state untouched. The commit itself is a
// single indivisible write: balances, split flips, transaction updates and
// the settlement record land together or not at all, and a split claimed by
// a concurrent settlement aborts everything with storage.ErrConflict.
// The budget-spent reduction afterwards is best-effort and never fails the
// already-committed settlement.
func (s *SettlementService) CreateSettlement(ctx context.Context, p CreateSettlementParams) (*SettlementResult, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	payerAccount, err := s.store.GetAccount(ctx, p.PayerAccountID)
	if err != nil {
		return nil, fmt.Errorf("payer account: %w", err)
	}
	if payerAccount.OwnerID != p.PayerID {
		return nil, fmt.Errorf("payer account %s: %w", p.PayerAccountID, ErrAccountOwnership)
	}
	receiverAccount, err := s.store.GetAccount(ctx, p.ReceiverAccountID)
	if err != nil {
		return nil, fmt.Errorf("receiver account: %w", err)
	}
	if receiverAccount.OwnerID != p.ReceiverID {
		return nil, fmt.Errorf("receiver account %s: %w", p.ReceiverAccountID, ErrAccountOwnership)
	}

	unpaid, err := s.store.GetUnpaidSplitsBetween(ctx, p.PayerID, p.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to gather unpaid splits: %w", err)
	}
	if len(p.SelectedSplitIDs) > 0 {
		selected := make(map[string]bool, len(p.SelectedSplitIDs))
		for _, id := range p.SelectedSplitIDs {
			selected[id] = true
		}
		filtered := unpaid[:0]
		for _, split := range unpaid {
			if selected[split.ID] {
				filtered = append(filtered, split)
			}
		}
		unpaid = filtered
	}
	if len(unpaid) == 0 {
		return nil, ErrNoUnpaidSplits
	}

	now := time.Now().Unix()
	commit, affected, err := s.buildCommit(ctx, p, unpaid, payerAccount, receiverAccount, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.ApplySettlement(ctx, commit); err != nil {
		return nil, fmt.Errorf("settlement commit: %w", err)
	}

	// Secondary, non-critical: shrink the owners' budget-spent aggregates.
	// These are derived projections recomputable from transaction history, so
	// a failure here is logged and swallowed, never surfaced to the caller.
	s.reduceBudgetSpent(ctx, affected, now)

	return &SettlementResult{
		SettlementID:       commit.Settlement.ID,
		Amount:             p.Amount,
		NewPayerBalance:    commit.NewPayerBalance,
		NewReceiverBalance: commit.NewReceiverBalance,
		SplitsSettled:      len(unpaid),
	}, nil
}

// affectedTransaction pairs a touched transaction with its amount reduction,
// for the post-commit budget update.
type affectedTransaction struct {
	tx        *models.Transaction
	reduction decimal.Decimal
}

// buildCommit computes the full change set before anything is written:
// balances, per-transaction reductions and closure stamps, and the settlement
// record carrying the complete list of touched transaction IDs.
func (s *SettlementService) buildCommit(
	ctx context.Context,
	p CreateSettlementParams,
	unpaid []models.ExpenseSplit,
	payerAccount, receiverAccount *models.Account,
	now int64,
) (*storage.SettlementCommit, []affectedTransaction, error) {
	splitIDs := make([]string, len(unpaid))
	claimed := make(map[string]bool, len(unpaid))
	reductions := make(map[string]decimal.Decimal)
	var txOrder []string
	for i, split := range unpaid {
		splitIDs[i] = split.ID
		claimed[split.ID] = true
		if _, seen := reductions[split.TransactionID]; !seen {
			txOrder = append(txOrder, split.TransactionID)
			reductions[split.TransactionID] = decimal.Zero
		}
		reductions[split.TransactionID] = reductions[split.TransactionID].Add(split.SplitAmount)
	}

	settlementID := uuid.New().String()
	closes := make([]storage.TransactionClose, 0, len(txOrder))
	affected := make([]affectedTransaction, 0, len(txOrder))
	for _, txID := range txOrder {
		tx, err := s.store.GetTransaction(ctx, txID)
		if err != nil {
			return nil, nil, fmt.Errorf("transaction %s: %w", txID, err)
		}

		newAmount := tx.Amount.Sub(reductions[txID])
		if newAmount.IsNegative() {
			newAmount = decimal.Zero
		}

		// Closure is decided against the split set as it will be after this
		// commit: the transaction closes when no unpaid split remains outside
		// the claimed set.
		all, err := s.store.GetSplitsForTransaction(ctx, txID)
		if err != nil {
			return nil, nil, fmt.Errorf("splits for transaction %s: %w", txID, err)
		}
		settle := true
		for _, split := range all {
			if !split.IsPaid && !claimed[split.ID] {
				settle = false
				break
			}
		}

		closes = append(closes, storage.TransactionClose{
			TransactionID: txID,
			OldAmount:     tx.Amount,
			NewAmount:     newAmount,
			Settle:        settle,
			SettledAt:     now,
		})
		affected = append(affected, affectedTransaction{tx: tx, reduction: reductions[txID]})
	}

	commit := &storage.SettlementCommit{
		Settlement: &models.Settlement{
			ID:              settlementID,
			HouseholdID:     p.HouseholdID,
			PayerUserID:     p.PayerID,
			ReceiverUserID:  p.ReceiverID,
			Amount:          p.Amount,
			PaymentMethod:   p.PaymentMethod,
			CategoryID:      p.CategoryID,
			SettledExpenses: txOrder,
			SettledAt:       now,
			CreatedAt:       now,
		},
		SplitIDs:           splitIDs,
		Transactions:       closes,
		PayerAccountID:     payerAccount.ID,
		NewPayerBalance:    payerAccount.Balance.Sub(p.Amount),
		ReceiverAccountID:  receiverAccount.ID,
		NewReceiverBalance: receiverAccount.Balance.Add(p.Amount),
	}

	if p.CategoryID != "" {
		commit.PaymentTransaction = &models.Transaction{
			HouseholdID:  p.HouseholdID,
			PaidByUserID: p.PayerID,
			Description:  "Debt settlement",
			Amount:       p.Amount,
			Type:         models.TransactionExpense,
			CategoryID:   p.CategoryID,
			IsShared:     false,
			Date:         now,
		}
	}

	return commit, affected, nil
}

// reduceBudgetSpent shrinks each owner's budget-spent aggregate by the amount
// their transaction was reduced, when the transaction falls inside the
// owner's current budget period. Errors are logged and swallowed.
func (s *SettlementService) reduceBudgetSpent(ctx context.Context, affected []affectedTransaction, now int64) {
	for _, a := range affected {
		if a.tx.CategoryID == "" {
			continue
		}
		budget, err := s.store.GetBudgetForDate(ctx, a.tx.PaidByUserID, a.tx.CategoryID, a.tx.Date)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			slog.Warn("budget lookup failed after settlement",
				"transaction_id", a.tx.ID, "error", err)
			continue
		}
		if budget.PeriodStart > now || budget.PeriodEnd < now {
			// Transaction belongs to a past period; leave its aggregate alone.
			continue
		}

		spent := budget.SpentAmount.Sub(a.reduction)
		if spent.IsNegative() {
			spent = decimal.Zero
		}
		if err := s.store.SetBudgetSpent(ctx, budget.ID, spent); err != nil {
			slog.Warn("budget spent update failed after settlement",
				"budget_id", budget.ID, "transaction_id", a.tx.ID, "error", err)
		}
	}
}
