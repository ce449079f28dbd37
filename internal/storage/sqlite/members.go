package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

// CreateMember inserts a new member into the database.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, household_id, name, email, password_hash, role, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		member.ID, member.HouseholdID, member.Name, member.Email,
		member.PasswordHash, string(member.Role), member.Active, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	m := &models.Member{}
	var role string
	err := row.Scan(&m.ID, &m.HouseholdID, &m.Name, &m.Email, &m.PasswordHash, &role, &m.Active, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Role = models.Role(role)
	return m, nil
}

const memberColumns = "id, household_id, name, email, password_hash, role, active, created_at"

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, id string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?", id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetMemberByEmail retrieves a member by their email address.
func (s *SQLiteStore) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE email = ?", email)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}
	return m, nil
}

// ListActiveMembers retrieves all active members of a household.
func (s *SQLiteStore) ListActiveMembers(ctx context.Context, householdID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE household_id = ? AND active = 1 ORDER BY created_at",
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// RecordIncome appends a declared income record for a member.
func (s *SQLiteStore) RecordIncome(ctx context.Context, memberID string, amount decimal.Decimal, recordedAt int64) error {
	if recordedAt == 0 {
		recordedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO incomes (member_id, amount, recorded_at) VALUES (?, ?, ?)",
		memberID, amount.String(), recordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record income: %w", err)
	}
	return nil
}

// LatestIncome returns the most recently recorded income for a member,
// 0 if none was ever declared.
func (s *SQLiteStore) LatestIncome(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT amount FROM incomes WHERE member_id = ? ORDER BY recorded_at DESC LIMIT 1",
		memberID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get latest income: %w", err)
	}
	return parseAmount(raw)
}
