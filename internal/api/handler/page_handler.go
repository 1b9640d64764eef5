package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-portal/internal/api/middleware"
	"github.com/99minutos/staff-portal/internal/api/view"
	"github.com/99minutos/staff-portal/internal/core/access"
	"github.com/99minutos/staff-portal/internal/core/domain"
)

// PageHandler renders the role-scoped pages behind the guard.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Admin(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageAdmin, userData(c))
}

func (h *PageHandler) Employee(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageEmployee, userData(c))
}

func userData(c echo.Context) view.UserData {
	identity := middleware.Identity(c)
	return view.UserData{
		Identity:  identity,
		CanDelete: access.Allows(identity, domain.RoleAdmin),
	}
}
