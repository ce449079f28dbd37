package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

// UpsertBudget creates or replaces the budget aggregate for one member,
// category and period.
func (s *SQLiteStore) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, member_id, category_id, period_start, period_end, spent_amount)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(member_id, category_id, period_start)
		 DO UPDATE SET period_end = excluded.period_end, spent_amount = excluded.spent_amount`,
		budget.ID, budget.MemberID, budget.CategoryID,
		budget.PeriodStart, budget.PeriodEnd, budget.SpentAmount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// GetBudgetForDate retrieves the budget aggregate whose period contains the
// given date.
func (s *SQLiteStore) GetBudgetForDate(ctx context.Context, memberID, categoryID string, date int64) (*models.Budget, error) {
	budget := &models.Budget{}
	var spent string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, member_id, category_id, period_start, period_end, spent_amount
		 FROM budgets
		 WHERE member_id = ? AND category_id = ? AND period_start <= ? AND period_end >= ?`,
		memberID, categoryID, date, date,
	).Scan(&budget.ID, &budget.MemberID, &budget.CategoryID,
		&budget.PeriodStart, &budget.PeriodEnd, &spent)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if budget.SpentAmount, err = parseAmount(spent); err != nil {
		return nil, err
	}
	return budget, nil
}

// SetBudgetSpent replaces the spent aggregate of a budget row.
func (s *SQLiteStore) SetBudgetSpent(ctx context.Context, budgetID string, spent decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE budgets SET spent_amount = ? WHERE id = ?", spent.String(), budgetID)
	if err != nil {
		return fmt.Errorf("failed to set budget spent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check budget update: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
