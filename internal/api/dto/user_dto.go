package dto

import (
	"time"

	"github.com/hcp-suporte/helpdesk-service/internal/domain"
)

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientIdentifyRequest payload. No password; clients claim a name.
type ClientIdentifyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse describes the acting identity.
type UserResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// AuthResponse carries the session token and its identity.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewAuthResponse maps a user and token into the response shape.
func NewAuthResponse(user *domain.User, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}
}
