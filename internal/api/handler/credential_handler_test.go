package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
)

type stubAuthService struct {
	verifyFn   func(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error)
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
}

func (s *stubAuthService) Verify(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error) {
	return s.verifyFn(ctx, creds)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCredentialHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error) {
			if creds.Email != "john.doe@test.com" || creds.Password != "Admin123!" {
				t.Fatalf("unexpected credentials: %+v", creds)
			}
			return domain.SessionIdentity{Role: domain.RoleAdmin, Username: "John Doe"}, nil
		},
	}
	h := NewCredentialHandler(stub, zerolog.Nop())

	c, rec := postJSON(e, "/api/login", `{"email":"john.doe@test.com","password":"Admin123!"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.Role != "ADMIN" || resp.User.Username != "John Doe" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestCredentialHandler_Login_Rejected(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error) {
			return domain.Anonymous, &domain.CredentialRejectedError{
				Status:  http.StatusUnauthorized,
				Message: domain.MessageInvalidCredentials,
			}
		},
	}
	h := NewCredentialHandler(stub, zerolog.Nop())

	c, rec := postJSON(e, "/api/login", `{"email":"john.doe@test.com","password":"Wrong123!"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != domain.MessageInvalidCredentials {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestCredentialHandler_Login_InternalFailure(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error) {
			return domain.Anonymous, errors.New("mongo down")
		},
	}
	h := NewCredentialHandler(stub, zerolog.Nop())

	c, rec := postJSON(e, "/api/login", `{"email":"john.doe@test.com","password":"Admin123!"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), domain.MessageUnexpected) {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}
}

func TestCredentialHandler_Login_MalformedPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, creds ports.Credentials) (domain.SessionIdentity, error) {
			t.Fatalf("verifier must not be called")
			return domain.Anonymous, nil
		},
	}
	h := NewCredentialHandler(stub, zerolog.Nop())

	c, rec := postJSON(e, "/api/login", `{"email":`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCredentialHandler_Register_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "Joana Doe" || in.Role != domain.RoleEmployee {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "1", Username: in.Username, Email: in.Email, Role: in.Role}, nil
		},
	}
	h := NewCredentialHandler(stub, zerolog.Nop())

	c, rec := postJSON(e, "/api/users",
		`{"username":"Joana Doe","email":"joana.doe@test.com","password":"Employee1!","role":"EMPLOYEE"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Employee1!") {
		t.Fatalf("password leaked in response")
	}
}

func TestCredentialHandler_Register_WeakPassword(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewCredentialHandler(stub, zerolog.Nop())

	c, rec := postJSON(e, "/api/users",
		`{"username":"Joana Doe","email":"joana.doe@test.com","password":"weak","role":"EMPLOYEE"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "at least 8 characters") {
		t.Fatalf("expected password message, got %s", rec.Body.String())
	}
}

func TestCredentialHandler_Register_UserExists(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewCredentialHandler(stub, zerolog.Nop())

	c, _ := postJSON(e, "/api/users",
		`{"username":"Joana Doe","email":"joana.doe@test.com","password":"Employee1!","role":"EMPLOYEE"}`)
	err := h.Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}
