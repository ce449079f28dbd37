package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

const transactionColumns = "id, household_id, paid_by_user_id, description, amount, type, category_id, is_shared, settled, settled_at, settlement_id, date, created_at"

// CreateTransaction persists a new transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	if t.Date == 0 {
		t.Date = t.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.HouseholdID, t.PaidByUserID, t.Description, t.Amount.String(),
		string(t.Type), t.CategoryID, t.IsShared, t.Settled, t.SettledAt,
		t.SettlementID, t.Date, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	t := &models.Transaction{}
	var amount, typ string
	err := row.Scan(&t.ID, &t.HouseholdID, &t.PaidByUserID, &t.Description, &amount,
		&typ, &t.CategoryID, &t.IsShared, &t.Settled, &t.SettledAt,
		&t.SettlementID, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(typ)
	if t.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// UpdateTransaction replaces a transaction's mutable fields.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET description = ?, amount = ?, type = ?, category_id = ?, is_shared = ?,
		     settled = ?, settled_at = ?, settlement_id = ?, date = ?
		 WHERE id = ?`,
		t.Description, t.Amount.String(), string(t.Type), t.CategoryID, t.IsShared,
		t.Settled, t.SettledAt, t.SettlementID, t.Date, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction and its splits in one write.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE transaction_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
