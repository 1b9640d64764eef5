package ports

import (
	"context"

	"github.com/99minutos/staff-portal/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

type AuthService interface {
	CredentialVerifier
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}
