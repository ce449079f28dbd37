package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hauskasse/backend/internal/models"
	"github.com/hauskasse/backend/internal/storage"
)

// memoryMembers is a MemberStorage backed by a map, enough for auth tests.
type memoryMembers struct {
	byEmail map[string]*models.Member
}

func newMemoryMembers() *memoryMembers {
	return &memoryMembers{byEmail: make(map[string]*models.Member)}
}

func (m *memoryMembers) CreateMember(_ context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = "member-" + member.Email
	}
	m.byEmail[member.Email] = member
	return nil
}

func (m *memoryMembers) GetMemberByEmail(_ context.Context, email string) (*models.Member, error) {
	member, ok := m.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return member, nil
}

func (m *memoryMembers) GetMember(_ context.Context, id string) (*models.Member, error) {
	for _, member := range m.byEmail {
		if member.ID == id {
			return member, nil
		}
	}
	return nil, storage.ErrNotFound
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("register and authenticate", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryMembers())
		member, err := a.Register(ctx, "hh1", "Anna", "anna@example.com", "correct-horse", models.RoleAdmin)
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if member.PasswordHash == "correct-horse" {
			t.Fatal("password stored in plaintext")
		}

		got, err := a.Authenticate(ctx, "anna@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != member.ID {
			t.Errorf("authenticated member %s, want %s", got.ID, member.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryMembers())
		if _, err := a.Register(ctx, "hh1", "Anna", "anna@example.com", "correct-horse", models.RoleAdmin); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if _, err := a.Authenticate(ctx, "anna@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryMembers())
		if _, err := a.Register(ctx, "hh1", "Anna", "anna@example.com", "short", models.RoleAdmin); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryMembers())
		if _, err := a.Register(ctx, "hh1", "Anna", "anna@example.com", "correct-horse", models.RoleAdmin); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if _, err := a.Register(ctx, "hh1", "Anna 2", "anna@example.com", "correct-horse", models.RoleMember); !errors.Is(err, ErrEmailExists) {
			t.Fatalf("expected ErrEmailExists, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	member := &models.Member{
		ID:          "member-1",
		HouseholdID: "hh1",
		Email:       "anna@example.com",
	}

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("secret", time.Hour)
		token, err := m.Generate(member)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != member.ID || claims.HouseholdID != member.HouseholdID {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("secret", time.Hour).Generate(member)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := NewJWTManager("other", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		m := NewJWTManager("secret", -time.Minute)
		token, err := m.Generate(member)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}
