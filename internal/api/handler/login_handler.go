package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/api/metrics"
	"github.com/99minutos/staff-portal/internal/api/middleware"
	"github.com/99minutos/staff-portal/internal/api/view"
	"github.com/99minutos/staff-portal/internal/core/access"
	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/loginform"
)

// LoginHandler drives the login page. Every request is one form event for
// the client's mounted form.
type LoginHandler struct {
	forms *FormRegistry
	log   zerolog.Logger
}

func NewLoginHandler(forms *FormRegistry, log zerolog.Logger) *LoginHandler {
	return &LoginHandler{forms: forms, log: log}
}

// Show renders the login page. The guard has already sent signed-in
// sessions to their home.
func (h *LoginHandler) Show(c echo.Context) error {
	form := h.forms.Mount(middleware.ClientID(c))
	noStore(c)
	return c.Render(http.StatusOK, view.PageLogin, view.LoginData{Form: form.Snapshot()})
}

// noStore keeps the login page, which echoes the typed password back into
// its input, out of browser and proxy caches.
func noStore(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "no-store")
	c.Response().Header().Set("Pragma", "no-cache")
}

// Submit handles the Send button.
func (h *LoginHandler) Submit(c echo.Context) error {
	clientID := middleware.ClientID(c)
	form := h.forms.Mount(clientID)
	store := middleware.Store(c)

	// Values submitted while another attempt is in flight are dropped; the
	// form keeps the ones being verified.
	_ = form.Change(loginform.FieldEmail, c.FormValue("email"))
	_ = form.Change(loginform.FieldPassword, c.FormValue("password"))

	start := time.Now()
	outcome, err := form.Submit(c.Request().Context(), store)
	metrics.LoginSubmissionsTotal.WithLabelValues(outcome.String()).Inc()

	status := http.StatusOK
	switch outcome {
	case loginform.OutcomeSignedIn:
		metrics.CredentialVerificationDuration.Observe(time.Since(start).Seconds())
		identity := store.Current()
		h.forms.Unmount(clientID)
		h.log.Info().
			Str("username", identity.Username).
			Str("role", identity.Role.String()).
			Msg("signed in")
		d := access.LoginPage(identity)
		return c.Redirect(http.StatusSeeOther, d.Destination.Path)
	case loginform.OutcomeFailed:
		metrics.CredentialVerificationDuration.Observe(time.Since(start).Seconds())
	case loginform.OutcomeMissingFields:
		status = http.StatusUnprocessableEntity
	case loginform.OutcomeIgnored:
		status = http.StatusConflict
		h.log.Debug().Err(err).Str("client_id", clientID).Msg("submit ignored")
	}

	noStore(c)
	return c.Render(status, view.PageLogin, view.LoginData{Form: form.Snapshot()})
}

type blurResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Blur validates one field as the user leaves it.
func (h *LoginHandler) Blur(c echo.Context) error {
	name, err := loginform.ParseFieldName(c.FormValue("field"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	form := h.forms.Mount(middleware.ClientID(c))
	if err := form.Change(name, c.FormValue("value")); err != nil && !errors.Is(err, domain.ErrSubmissionInFlight) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	field, err := form.Blur(name)
	if err != nil {
		if errors.Is(err, loginform.ErrUnknownField) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, blurResponse{Field: string(name), Message: field.Message})
}

// CloseNotification hides the failure snackbar and goes back to the page.
func (h *LoginHandler) CloseNotification(c echo.Context) error {
	h.forms.Mount(middleware.ClientID(c)).CloseNotification()
	return c.Redirect(http.StatusSeeOther, access.Login.Path)
}

// Logout signs the session out. The session middleware revokes the token
// and clears the cookie.
func (h *LoginHandler) Logout(c echo.Context) error {
	store := middleware.Store(c)
	previous := store.Current()
	if previous.Authenticated() {
		store.SignOut()
		metrics.SignOutsTotal.Inc()
		h.log.Info().Str("username", previous.Username).Msg("signed out")
	}
	h.forms.Unmount(middleware.ClientID(c))
	return c.Redirect(http.StatusSeeOther, access.Login.Path)
}
