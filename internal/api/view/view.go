// Package view renders the portal pages with html/template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/loginform"
)

//go:embed templates/*.html
var files embed.FS

const (
	PageLogin    = "login"
	PageAdmin    = "admin"
	PageEmployee = "employee"
)

// LoginData feeds the login page.
type LoginData struct {
	Form loginform.View
}

// UserData feeds the authenticated pages.
type UserData struct {
	Identity  domain.SessionIdentity
	CanDelete bool
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageLogin, PageAdmin, PageEmployee} {
		tpl, err := template.New("layout.html").ParseFS(files, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = tpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tpl.ExecuteTemplate(w, "layout.html", data)
}
