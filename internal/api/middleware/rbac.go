package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-portal/internal/core/access"
	"github.com/99minutos/staff-portal/internal/core/domain"
)

// RBAC enforces role-based access control on API routes, which answer with
// status codes instead of redirects.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	policy := access.Only(allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch access.Authorize(Store(c).Current(), policy) {
			case access.Unauthenticated:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			case access.ForbiddenButAuthenticated:
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
