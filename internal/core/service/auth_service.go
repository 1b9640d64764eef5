package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/core/validation"
)

// AuthService verifies credentials against the account repository and
// registers new accounts.
type AuthService struct {
	repo ports.AuthRepository
	log  zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(repo ports.AuthRepository, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	if strings.TrimSpace(in.Username) == "" || !validation.ValidateEmail(in.Email) || !validation.ValidatePassword(in.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !in.Role.Authenticated() {
		return nil, domain.ErrUnknownRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Verify checks the email/password pair. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (s *AuthService) Verify(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error) {
	if creds.Email == "" || creds.Password == "" {
		return domain.Anonymous, rejected()
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", creds.Email).Msg("login for unknown email")
			return domain.Anonymous, rejected()
		}
		return domain.Anonymous, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return domain.Anonymous, rejected()
	}

	identity := user.Identity()
	if err := identity.Validate(); err != nil {
		return domain.Anonymous, fmt.Errorf("user %s: %w", user.ID, err)
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role.String()).Msg("credentials verified")
	return identity, nil
}

func rejected() error {
	return &domain.CredentialRejectedError{
		Status:  http.StatusUnauthorized,
		Message: domain.MessageInvalidCredentials,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
