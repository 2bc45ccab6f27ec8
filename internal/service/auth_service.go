package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hcp-suporte/helpdesk-service/internal/auth"
	"github.com/hcp-suporte/helpdesk-service/internal/config"
	"github.com/hcp-suporte/helpdesk-service/internal/domain"
	apperrors "github.com/hcp-suporte/helpdesk-service/pkg/util"
)

// invalidCredentialsMessage is surfaced inline for any failed admin login.
const invalidCredentialsMessage = "Credenciais inválidas. Verifique o email e a senha."

// AuthService resolves acting identities. There is a single fixed admin
// credential pair; clients identify themselves by name with no password;
// guests get a synthetic disposable identity.
type AuthService struct {
	adminEmail string
	adminHash  string
	tokens     *auth.TokenManager
}

// NewAuthService builds the service. The configured admin password is
// hashed once at startup so login compares against a bcrypt hash.
func NewAuthService(cfg config.Config) (*AuthService, error) {
	hash, err := auth.HashPassword(cfg.Auth.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		adminEmail: cfg.Auth.AdminEmail,
		adminHash:  hash,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}, nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// LoginAdmin authenticates the fixed admin credential pair.
func (s *AuthService) LoginAdmin(_ context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if email != s.adminEmail || auth.ComparePassword(s.adminHash, password) != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	user := &domain.User{
		ID:    "admin-1",
		Name:  "Equipe de Suporte",
		Email: s.adminEmail,
		Role:  domain.RoleAdmin,
	}
	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// IdentifyClient creates an ad-hoc client identity from a claimed name.
// No password verification happens; the identity lives in the token only.
func (s *AuthService) IdentifyClient(_ context.Context, name, email string) (*domain.User, string, time.Time, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name required", nil)
	}

	user := &domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: strings.TrimSpace(email),
		Role:  domain.RoleClient,
	}
	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// GuestSession issues a synthetic guest identity with a fixed placeholder
// name and a collision-resistant disposable client id.
func (s *AuthService) GuestSession(_ context.Context) (*domain.User, string, time.Time, error) {
	user := &domain.User{
		ID:    "guest-" + uuid.NewString(),
		Name:  "Visitante",
		Email: "visitante@email.com",
		Role:  domain.RoleGuest,
	}
	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout is a no-op for the stateless token approach; the client discards
// its token.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}
