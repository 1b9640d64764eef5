package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/api/handler"
	"github.com/99minutos/staff-portal/internal/api/middleware"
	"github.com/99minutos/staff-portal/internal/core/access"
	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/core/service"
	"github.com/99minutos/staff-portal/internal/infrastructure/db/memory"
	"github.com/99minutos/staff-portal/internal/pkg/config"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	users := memory.NewUserRepository()
	auth := service.NewAuthService(users, zerolog.Nop())
	for _, in := range []ports.RegisterInput{
		{Username: "John Doe", Email: "john.doe@test.com", Password: "Admin123!", Role: domain.RoleAdmin},
		{Username: "Joana Doe", Email: "joana.doe@test.com", Password: "Employee1!", Role: domain.RoleEmployee},
	} {
		if _, err := auth.Register(context.Background(), in); err != nil {
			t.Fatalf("seed %s: %v", in.Username, err)
		}
	}

	cfg := &config.Config{
		Env: "test",
		Session: config.SessionConfig{
			JWTSecret:       "test-secret",
			TTL:             time.Hour,
			NotificationTTL: 6 * time.Second,
			FormCacheSize:   16,
		},
	}
	e, err := NewRouter(Deps{
		Config:      cfg,
		Log:         zerolog.Nop(),
		Verifier:    auth,
		AuthService: auth,
		Revocations: memory.NewRevocationStore(),
		Ready:       map[string]handler.Pinger{},
		Metrics:     prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return e
}

// browser keeps cookies between requests like a single browser run.
type browser struct {
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func newBrowser(e *echo.Echo) *browser {
	return &browser{e: e, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range b.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return rec
}

func (b *browser) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	b.do(http.MethodGet, "/", nil)
	return b.do(http.MethodPost, "/", url.Values{"email": {email}, "password": {password}})
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, to string) {
	t.Helper()
	if rec.Code != http.StatusFound && rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != to {
		t.Fatalf("expected redirect to %q, got %q", to, loc)
	}
}

func TestRouter_AnonymousIsSentToLogin(t *testing.T) {
	b := newBrowser(newTestRouter(t))

	for _, path := range []string{"/admin", "/employee"} {
		expectRedirect(t, b.do(http.MethodGet, path, nil), "/")
	}

	rec := b.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Login Page") {
		t.Fatalf("expected login page, got %d", rec.Code)
	}
	if _, ok := b.cookies[middleware.ClientCookie]; !ok {
		t.Fatalf("expected client cookie")
	}
}

func TestRouter_AdminSignInRendersAdminHome(t *testing.T) {
	b := newBrowser(newTestRouter(t))

	expectRedirect(t, b.login(t, "john.doe@test.com", "Admin123!"), "/admin")
	if _, ok := b.cookies[middleware.SessionCookie]; !ok {
		t.Fatalf("expected session cookie after sign in")
	}

	rec := b.do(http.MethodGet, "/admin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Admin Page") || !strings.Contains(body, "John Doe") {
		t.Fatalf("admin page missing content: %s", body)
	}

	rec = b.do(http.MethodGet, "/employee", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ">Delete</button>") {
		t.Fatalf("admin should see the employee page with Delete, got %d", rec.Code)
	}

	expectRedirect(t, b.do(http.MethodGet, "/", nil), "/admin")
}

func TestRouter_EmployeeIsKeptOutOfAdmin(t *testing.T) {
	b := newBrowser(newTestRouter(t))

	expectRedirect(t, b.login(t, "joana.doe@test.com", "Employee1!"), "/employee")
	expectRedirect(t, b.do(http.MethodGet, "/admin", nil), "/employee")

	rec := b.do(http.MethodGet, "/employee", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Employee Page") || !strings.Contains(body, "Joana Doe") {
		t.Fatalf("employee page missing content: %s", body)
	}
	if strings.Contains(body, ">Delete</button>") {
		t.Fatalf("employee must not see Delete")
	}
}

func TestRouter_WrongPasswordStaysOnLogin(t *testing.T) {
	b := newBrowser(newTestRouter(t))

	rec := b.login(t, "john.doe@test.com", "Wrong123!")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), domain.MessageInvalidCredentials) {
		t.Fatalf("expected rejection message")
	}
	if _, ok := b.cookies[middleware.SessionCookie]; ok {
		t.Fatalf("no session cookie expected")
	}
	expectRedirect(t, b.do(http.MethodGet, "/admin", nil), "/")
}

func TestRouter_LogoutRevokesSession(t *testing.T) {
	b := newBrowser(newTestRouter(t))

	b.login(t, "john.doe@test.com", "Admin123!")
	stale := *b.cookies[middleware.SessionCookie]

	expectRedirect(t, b.do(http.MethodPost, "/logout", nil), "/")
	if _, ok := b.cookies[middleware.SessionCookie]; ok {
		t.Fatalf("session cookie should be cleared")
	}
	expectRedirect(t, b.do(http.MethodGet, "/admin", nil), "/")

	// Replaying the old token must not sign the browser back in.
	b.cookies[middleware.SessionCookie] = &stale
	expectRedirect(t, b.do(http.MethodGet, "/admin", nil), "/")
}

func TestRouter_CredentialEndpoint(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"john.doe@test.com","password":"Wrong123!"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message":"`+domain.MessageInvalidCredentials+`"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_RegisterRequiresAdmin(t *testing.T) {
	e := newTestRouter(t)
	payload := `{"username":"Jane Roe","email":"jane.roe@test.com","password":"Employee1!","role":"EMPLOYEE"}`

	send := func(b *browser) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		for _, ck := range b.cookies {
			req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	anon := newBrowser(e)
	if rec := send(anon); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	emp := newBrowser(e)
	emp.login(t, "joana.doe@test.com", "Employee1!")
	if rec := send(emp); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	adm := newBrowser(e)
	adm.login(t, "john.doe@test.com", "Admin123!")
	if rec := send(adm); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := send(adm); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate, got %d", rec.Code)
	}
}

func TestRouter_HealthProbes(t *testing.T) {
	e := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_EveryDestinationIsRouted(t *testing.T) {
	b := newBrowser(newTestRouter(t))

	for _, dest := range access.Destinations() {
		rec := b.do(http.MethodGet, dest.Path, nil)
		if dest.Public {
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", dest.Path, rec.Code)
			}
			continue
		}
		expectRedirect(t, rec, access.Login.Path)
	}
}
