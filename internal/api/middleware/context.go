package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/session"
)

const (
	ctxClientID = "client_id"
	ctxSession  = "session"
	ctxIdentity = "identity"
)

// ClientID returns the browser run id set by the Client middleware.
func ClientID(c echo.Context) string {
	id, _ := c.Get(ctxClientID).(string)
	return id
}

// Store returns the session store set by the Session middleware. Requests
// that did not go through it get a fresh anonymous store.
func Store(c echo.Context) *session.Store {
	if s, ok := c.Get(ctxSession).(*session.Store); ok {
		return s
	}
	s := session.NewStore()
	c.Set(ctxSession, s)
	return s
}

// Identity returns the identity a Guard decision rendered with.
func Identity(c echo.Context) domain.SessionIdentity {
	if id, ok := c.Get(ctxIdentity).(domain.SessionIdentity); ok {
		return id
	}
	return Store(c).Current()
}
