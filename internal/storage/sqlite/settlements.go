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

// ApplySettlement applies a precomputed settlement change set as one SQLite
// transaction: split flips, transaction updates, both balance writes, the
// settlement row and its touched-expense rows, and the optional synthesized
// payment transaction either all land or none do.
//
// Each split flip is conditioned on the split still being unpaid, and each
// transaction write on the amount still matching the pre-commit read. Either
// condition failing means a concurrent settlement won the race: the
// conditional UPDATE matches zero rows and the whole commit aborts with
// storage.ErrConflict. The caller must rebuild its change set from a fresh
// read and retry.
func (s *SQLiteStore) ApplySettlement(ctx context.Context, commit *storage.SettlementCommit) error {
	st := commit.Settlement
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.CreatedAt == 0 {
		st.CreatedAt = time.Now().Unix()
	}
	if st.SettledAt == 0 {
		st.SettledAt = st.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Claim every selected split. The is_paid = 0 condition is the optimistic
	// check-and-set: a row that no longer matches was settled concurrently.
	for _, splitID := range commit.SplitIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE expense_splits SET is_paid = 1 WHERE id = ? AND is_paid = 0", splitID)
		if err != nil {
			return fmt.Errorf("failed to mark split paid: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check split update: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("split %s: %w", splitID, storage.ErrConflict)
		}
	}

	// Shrink and, where fully paid, close the originating transactions. The
	// amount = OldAmount condition is the same check-and-set as the split
	// claim: a commit built from a stale read must not overwrite a concurrent
	// settlement's reduction, nor carry its stale closure decision.
	for _, tc := range commit.Transactions {
		var res sql.Result
		if tc.Settle {
			res, err = tx.ExecContext(ctx,
				"UPDATE transactions SET amount = ?, settled = 1, settled_at = ?, settlement_id = ? WHERE id = ? AND amount = ?",
				tc.NewAmount.String(), tc.SettledAt, st.ID, tc.TransactionID, tc.OldAmount.String())
		} else {
			res, err = tx.ExecContext(ctx,
				"UPDATE transactions SET amount = ? WHERE id = ? AND amount = ?",
				tc.NewAmount.String(), tc.TransactionID, tc.OldAmount.String())
		}
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check transaction update: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("transaction %s: %w", tc.TransactionID, storage.ErrConflict)
		}
	}

	// Move the money between the two accounts.
	for _, bal := range []struct {
		accountID string
		balance   string
	}{
		{commit.PayerAccountID, commit.NewPayerBalance.String()},
		{commit.ReceiverAccountID, commit.NewReceiverBalance.String()},
	} {
		res, err := tx.ExecContext(ctx,
			"UPDATE accounts SET balance = ? WHERE id = ?", bal.balance, bal.accountID)
		if err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check balance update: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("account %s: %w", bal.accountID, storage.ErrNotFound)
		}
	}

	// Record the settlement itself.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, household_id, payer_user_id, receiver_user_id, amount, payment_method, category_id, settled_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.HouseholdID, st.PayerUserID, st.ReceiverUserID, st.Amount.String(),
		st.PaymentMethod, st.CategoryID, st.SettledAt, st.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	for _, transactionID := range st.SettledExpenses {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO settlement_expenses (settlement_id, transaction_id) VALUES (?, ?)",
			st.ID, transactionID)
		if err != nil {
			return fmt.Errorf("failed to insert settlement expense: %w", err)
		}
	}

	// Optional synthesized expense for the payer's budget.
	if pt := commit.PaymentTransaction; pt != nil {
		if pt.ID == "" {
			pt.ID = uuid.New().String()
		}
		if pt.CreatedAt == 0 {
			pt.CreatedAt = st.CreatedAt
		}
		if pt.Date == 0 {
			pt.Date = pt.CreatedAt
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (`+transactionColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pt.ID, pt.HouseholdID, pt.PaidByUserID, pt.Description, pt.Amount.String(),
			string(pt.Type), pt.CategoryID, pt.IsShared, pt.Settled, pt.SettledAt,
			pt.SettlementID, pt.Date, pt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

const settlementColumns = "id, household_id, payer_user_id, receiver_user_id, amount, payment_method, category_id, settled_at, created_at"

func (s *SQLiteStore) scanSettlement(ctx context.Context, row interface{ Scan(...any) error }) (*models.Settlement, error) {
	st := &models.Settlement{}
	var amount string
	err := row.Scan(&st.ID, &st.HouseholdID, &st.PayerUserID, &st.ReceiverUserID,
		&amount, &st.PaymentMethod, &st.CategoryID, &st.SettledAt, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	if st.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT transaction_id FROM settlement_expenses WHERE settlement_id = ?", st.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement expenses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var transactionID string
		if err := rows.Scan(&transactionID); err != nil {
			return nil, fmt.Errorf("failed to scan settlement expense: %w", err)
		}
		st.SettledExpenses = append(st.SettledExpenses, transactionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement expenses: %w", err)
	}
	return st, nil
}

// GetSettlement retrieves a settlement by ID, including its touched
// transaction IDs.
func (s *SQLiteStore) GetSettlement(ctx context.Context, id string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ?", id)
	st, err := s.scanSettlement(ctx, row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return st, nil
}

// ListSettlementsForHousehold retrieves all settlements for a household,
// newest first.
func (s *SQLiteStore) ListSettlementsForHousehold(ctx context.Context, householdID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE household_id = ? ORDER BY created_at DESC",
		householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		st, err := s.scanSettlement(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
