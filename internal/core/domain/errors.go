package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidIdentity    = errors.New("role and username must be set together")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrTokenRevoked       = errors.New("session token revoked")
)

const (
	// MessageInvalidCredentials is the text the credential endpoint answers a
	// bad email/password pair with.
	MessageInvalidCredentials = "The email or password are not correct"
	// MessageUnexpected is shown when no usable answer came back.
	MessageUnexpected = "Unexpected error, please try again"
)

// CredentialRejectedError is a non-2xx answer from the credential endpoint.
type CredentialRejectedError struct {
	Status  int
	Message string
}

func (e *CredentialRejectedError) Error() string {
	return fmt.Sprintf("credentials rejected (status %d): %s", e.Status, e.Message)
}

// TransportFailureError means the credential endpoint produced no usable
// response at all.
type TransportFailureError struct {
	Err error
}

func (e *TransportFailureError) Error() string {
	return fmt.Sprintf("credential transport failure: %v", e.Err)
}

func (e *TransportFailureError) Unwrap() error { return e.Err }

// UserMessage returns the text a failed submission should surface. Rejections
// are shown verbatim; everything else collapses to MessageUnexpected.
func UserMessage(err error) string {
	var rejected *CredentialRejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return MessageUnexpected
}
