package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/calculator"
	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

// SettingsService handles the explicit settings-update command for a
// household's split configuration.
type SettingsService struct {
	store storage.Store
}

// NewSettingsService creates a new SettingsService with the given storage
// backend.
func NewSettingsService(store storage.Store) *SettingsService {
	return &SettingsService{store: store}
}

// UpdateSplitSettings validates and persists a household's split method and,
// for the manual method, its ratio set.
func (s *SettingsService) UpdateSplitSettings(ctx context.Context, householdID string, method models.SplitMethod, ratios map[string]decimal.Decimal) (*models.SplitSettings, error) {
	switch method {
	case models.SplitAutomatic:
		ratios = nil
	case models.SplitManual:
		if err := calculator.ValidateManualRatios(ratios); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown split method %q", method)
	}

	settings := &models.SplitSettings{
		HouseholdID:  householdID,
		Method:       method,
		ManualRatios: ratios,
	}
	if err := s.store.SaveSplitSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save split settings: %w", err)
	}
	return settings, nil
}

// GetSplitSettings returns the stored settings, defaulting to the automatic
// method for households that never configured anything.
func (s *SettingsService) GetSplitSettings(ctx context.Context, householdID string) (*models.SplitSettings, error) {
	settings, err := s.store.GetSplitSettings(ctx, householdID)
	if err == nil {
		return settings, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return &models.SplitSettings{HouseholdID: householdID, Method: models.SplitAutomatic}, nil
	}
	return nil, fmt.Errorf("failed to load split settings: %w", err)
}
