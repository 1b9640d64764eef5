package ports

import (
	"context"

	"github.com/99minutos/staff-portal/internal/core/domain"
)

// Credentials is what the login form submits.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CredentialVerifier turns credentials into a session identity.
//
// Failures are classified: *domain.CredentialRejectedError for an answer with
// a non-2xx status, *domain.TransportFailureError when no answer arrived.
type CredentialVerifier interface {
	Verify(ctx context.Context, creds Credentials) (domain.SessionIdentity, error)
}
