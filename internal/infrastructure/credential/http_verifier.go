// Package credential contains the HTTP adapter for the credential endpoint.
package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// HTTPVerifier posts credentials to a remote credential endpoint.
//
//	request:  {"email": "...", "password": "..."}
//	2xx:      {"user": {"role": "...", "username": "..."}}
//	non-2xx:  {"message": "..."}
type HTTPVerifier struct {
	endpoint string
	client   *http.Client
}

var _ ports.CredentialVerifier = (*HTTPVerifier)(nil)

// NewHTTPVerifier builds a verifier for endpoint. A nil client gets a default
// one with a bounded timeout.
func NewHTTPVerifier(endpoint string, client *http.Client) *HTTPVerifier {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPVerifier{endpoint: endpoint, client: client}
}

type successBody struct {
	User *struct {
		Role     string `json:"role"`
		Username string `json:"username"`
	} `json:"user"`
}

type failureBody struct {
	Message string `json:"message"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return domain.Anonymous, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Anonymous, &domain.TransportFailureError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return domain.Anonymous, &domain.TransportFailureError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Anonymous, &domain.TransportFailureError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fb failureBody
		if err := json.Unmarshal(body, &fb); err != nil || fb.Message == "" {
			return domain.Anonymous, &domain.TransportFailureError{
				Err: fmt.Errorf("status %d without message", resp.StatusCode),
			}
		}
		return domain.Anonymous, &domain.CredentialRejectedError{Status: resp.StatusCode, Message: fb.Message}
	}

	var sb successBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return domain.Anonymous, &domain.TransportFailureError{Err: fmt.Errorf("decode body: %w", err)}
	}
	if sb.User == nil {
		return domain.Anonymous, &domain.TransportFailureError{Err: errors.New("response without user")}
	}

	role, err := domain.ParseRole(sb.User.Role)
	if err != nil {
		return domain.Anonymous, &domain.TransportFailureError{Err: fmt.Errorf("role %q: %w", sb.User.Role, err)}
	}
	return domain.SessionIdentity{Role: role, Username: sb.User.Username}, nil
}
