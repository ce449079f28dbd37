package models

import "time"

// Role distinguishes household administrators from regular members.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Member represents a person belonging to exactly one household.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// HouseholdID is the household this member belongs to.
	HouseholdID string

	// Name is the display name of the member.
	Name string

	// Email is the member's email address (unique). Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the member's password.
	PasswordHash string

	// Role is either RoleAdmin or RoleMember.
	Role Role

	// Active reports whether the member currently participates in
	// expense splitting. Inactive members keep their history but
	// receive no new splits.
	Active bool

	// CreatedAt is the Unix timestamp when the member was created.
	CreatedAt int64
}

// NewMember creates a member with a generated timestamp.
// The caller supplies the ID (or leaves it empty for the store to assign).
func NewMember(householdID, name, email, passwordHash string, role Role) *Member {
	return &Member{
		HouseholdID:  householdID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().Unix(),
	}
}
