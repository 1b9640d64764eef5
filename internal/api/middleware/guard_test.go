package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/core/access"
	"github.com/99minutos/staff-portal/internal/core/domain"
)

func runGuard(t *testing.T, dest access.Destination, identity domain.SessionIdentity) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	c, rec := contextWithIdentity(t, identity)

	rendered := false
	handler := Guard(dest, zerolog.Nop())(func(c echo.Context) error {
		rendered = true
		if Identity(c) != identity {
			t.Fatalf("expected identity %+v, got %+v", identity, Identity(c))
		}
		return c.String(http.StatusOK, Identity(c).Username)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, rendered
}

func TestGuard_UnauthenticatedRedirectsToLogin(t *testing.T) {
	for _, dest := range []access.Destination{access.AdminHome, access.EmployeeHome} {
		rec, rendered := runGuard(t, dest, domain.Anonymous)
		if rendered {
			t.Fatalf("%s rendered for anonymous session", dest.Path)
		}
		if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
			t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
	}
}

func TestGuard_EmployeeOnAdminRedirectsHome(t *testing.T) {
	rec, rendered := runGuard(t, access.AdminHome, employee)
	if rendered {
		t.Fatalf("admin page rendered for employee")
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/employee" {
		t.Fatalf("expected redirect to /employee, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGuard_AuthorizedRenders(t *testing.T) {
	rec, rendered := runGuard(t, access.AdminHome, admin)
	if !rendered || rec.Code != http.StatusOK || rec.Body.String() != "John Doe" {
		t.Fatalf("expected admin page, got %d %q", rec.Code, rec.Body.String())
	}

	rec, rendered = runGuard(t, access.EmployeeHome, admin)
	if !rendered || rec.Code != http.StatusOK {
		t.Fatalf("expected admin to reach employee page, got %d", rec.Code)
	}
}

func TestGuard_LoginRedirectsSignedInUsers(t *testing.T) {
	rec, rendered := runGuard(t, access.Login, admin)
	if rendered || rec.Header().Get(echo.HeaderLocation) != "/admin" {
		t.Fatalf("expected redirect to /admin, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec, rendered = runGuard(t, access.Login, domain.Anonymous)
	if !rendered || rec.Code != http.StatusOK {
		t.Fatalf("expected login page to render, got %d", rec.Code)
	}
}
