package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

// GetSplitSettings retrieves the split configuration for a household,
// including its manual ratio rows.
func (s *SQLiteStore) GetSplitSettings(ctx context.Context, householdID string) (*models.SplitSettings, error) {
	settings := &models.SplitSettings{HouseholdID: householdID}
	var method string
	err := s.db.QueryRowContext(ctx,
		"SELECT method, updated_at FROM split_settings WHERE household_id = ?",
		householdID,
	).Scan(&method, &settings.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split settings: %w", err)
	}
	settings.Method = models.SplitMethod(method)

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, percentage FROM split_ratios WHERE household_id = ?",
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split ratios: %w", err)
	}
	defer rows.Close()

	settings.ManualRatios = make(map[string]decimal.Decimal)
	for rows.Next() {
		var memberID, raw string
		if err := rows.Scan(&memberID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan split ratio: %w", err)
		}
		pct, err := parseAmount(raw)
		if err != nil {
			return nil, err
		}
		settings.ManualRatios[memberID] = pct
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split ratios: %w", err)
	}
	return settings, nil
}

// SaveSplitSettings replaces a household's split configuration. The settings
// row and its ratio rows are written in one transaction so readers never see
// a half-updated ratio set.
func (s *SQLiteStore) SaveSplitSettings(ctx context.Context, settings *models.SplitSettings) error {
	if settings.UpdatedAt == 0 {
		settings.UpdatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO split_settings (household_id, method, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(household_id) DO UPDATE SET method = excluded.method, updated_at = excluded.updated_at`,
		settings.HouseholdID, string(settings.Method), settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save split settings: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM split_ratios WHERE household_id = ?", settings.HouseholdID)
	if err != nil {
		return fmt.Errorf("failed to clear split ratios: %w", err)
	}

	for memberID, pct := range settings.ManualRatios {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO split_ratios (household_id, member_id, percentage) VALUES (?, ?, ?)",
			settings.HouseholdID, memberID, pct.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split ratio: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit split settings: %w", err)
	}
	return nil
}
