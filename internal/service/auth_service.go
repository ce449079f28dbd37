package service

import (
	"context"

	"github.com/hauskasse/backend/internal/auth"
	"github.com/hauskasse/backend/internal/models"
)

// AuthService issues member sessions on top of the password authenticator.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwtManager: jwtManager}
}

// Register creates a member account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, householdID, name, email, password string, role models.Role) (*models.Member, string, error) {
	member, err := s.authenticator.Register(ctx, householdID, name, email, password, role)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtManager.Generate(member)
	if err != nil {
		return nil, "", err
	}
	return member, token, nil
}

// Login authenticates a member and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Member, string, error) {
	member, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtManager.Generate(member)
	if err != nil {
		return nil, "", err
	}
	return member, token, nil
}
