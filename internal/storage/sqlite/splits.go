package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

const splitColumns = "id, transaction_id, ower_user_id, owed_to_user_id, split_amount, split_percentage, is_paid, created_at"

// CreateExpenseSplits persists a batch of splits for one transaction.
//
// The check for existing splits and the inserts run inside one transaction,
// so creating splits for the same transaction twice fails with
// storage.ErrSplitsExist instead of silently duplicating obligations.
func (s *SQLiteStore) CreateExpenseSplits(ctx context.Context, transactionID string, splits []*models.ExpenseSplit) error {
	if len(splits) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expense_splits WHERE transaction_id = ?", transactionID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to check existing splits: %w", err)
	}
	if existing > 0 {
		return storage.ErrSplitsExist
	}

	now := time.Now().Unix()
	for _, split := range splits {
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		if split.CreatedAt == 0 {
			split.CreatedAt = now
		}
		split.TransactionID = transactionID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_splits (id, transaction_id, ower_user_id, owed_to_user_id, split_amount, split_percentage, is_paid, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			split.ID, split.TransactionID, split.OwerUserID, split.OwedToUserID,
			split.SplitAmount.String(), split.SplitPercentage.String(), split.IsPaid, split.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit splits: %w", err)
	}
	return nil
}

// DeleteExpenseSplits removes all splits for a transaction in one write.
func (s *SQLiteStore) DeleteExpenseSplits(ctx context.Context, transactionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM expense_splits WHERE transaction_id = ?", transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}
	return nil
}

func (s *SQLiteStore) querySplits(ctx context.Context, query string, args ...any) ([]models.ExpenseSplit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits: %w", err)
	}
	defer rows.Close()

	var splits []models.ExpenseSplit
	for rows.Next() {
		var split models.ExpenseSplit
		var amount, pct string
		if err := rows.Scan(&split.ID, &split.TransactionID, &split.OwerUserID, &split.OwedToUserID,
			&amount, &pct, &split.IsPaid, &split.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if split.SplitAmount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if split.SplitPercentage, err = parseAmount(pct); err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// GetSplitsForTransaction retrieves all splits (paid and unpaid) for a transaction.
func (s *SQLiteStore) GetSplitsForTransaction(ctx context.Context, transactionID string) ([]models.ExpenseSplit, error) {
	return s.querySplits(ctx,
		"SELECT "+splitColumns+" FROM expense_splits WHERE transaction_id = ? ORDER BY created_at",
		transactionID)
}

// GetUnpaidSplitsForUser retrieves the unpaid splits where the user owes.
func (s *SQLiteStore) GetUnpaidSplitsForUser(ctx context.Context, owerUserID string) ([]models.ExpenseSplit, error) {
	return s.querySplits(ctx,
		"SELECT "+splitColumns+" FROM expense_splits WHERE ower_user_id = ? AND is_paid = 0 ORDER BY created_at",
		owerUserID)
}

// GetUnpaidSplitsOwedToUser retrieves the unpaid splits owed to the user.
func (s *SQLiteStore) GetUnpaidSplitsOwedToUser(ctx context.Context, owedToUserID string) ([]models.ExpenseSplit, error) {
	return s.querySplits(ctx,
		"SELECT "+splitColumns+" FROM expense_splits WHERE owed_to_user_id = ? AND is_paid = 0 ORDER BY created_at",
		owedToUserID)
}

// GetUnpaidSplitsBetween retrieves the unpaid splits where ower owes owedTo.
func (s *SQLiteStore) GetUnpaidSplitsBetween(ctx context.Context, owerUserID, owedToUserID string) ([]models.ExpenseSplit, error) {
	return s.querySplits(ctx,
		"SELECT "+splitColumns+" FROM expense_splits WHERE ower_user_id = ? AND owed_to_user_id = ? AND is_paid = 0 ORDER BY created_at",
		owerUserID, owedToUserID)
}

// MarkSplitPaid flips a split to paid. Marking an already-paid split is a
// no-op; a missing split is storage.ErrNotFound.
func (s *SQLiteStore) MarkSplitPaid(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_splits SET is_paid = 1 WHERE id = ?", splitID)
	if err != nil {
		return fmt.Errorf("failed to mark split paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check mark-paid result: %w", err)
	}
	if affected == 0 {
		// Distinguish "already paid" (no-op) from "does not exist".
		var exists int
		err := s.db.QueryRowContext(ctx,
			"SELECT 1 FROM expense_splits WHERE id = ?", splitID).Scan(&exists)
		if err != nil {
			return storage.ErrNotFound
		}
	}
	return nil
}
