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

// CreateAccount persists a new account.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, owner_id, name, balance, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID, account.OwnerID, account.Name, account.Balance.String(),
		account.Currency, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account := &models.Account{}
	var balance string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, balance, currency, created_at FROM accounts WHERE id = ?",
		id,
	).Scan(&account.ID, &account.OwnerID, &account.Name, &balance, &account.Currency, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.Balance, err = parseAmount(balance); err != nil {
		return nil, err
	}
	return account, nil
}
