package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/api/metrics"
	"github.com/99minutos/staff-portal/internal/core/access"
)

// Guard evaluates dest against the request's session on every navigation.
// Redirect decisions answer 302; render decisions pass the identity down to
// the page handler.
func Guard(dest access.Destination, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := access.Evaluate(dest, Store(c).Current())
			metrics.GuardDecisionsTotal.WithLabelValues(dest.Name, d.Outcome.String()).Inc()

			if d.Redirect() {
				log.Debug().
					Str("from", dest.Path).
					Str("to", d.Destination.Path).
					Str("outcome", d.Outcome.String()).
					Msg("guard redirect")
				return c.Redirect(http.StatusFound, d.Destination.Path)
			}

			c.Set(ctxIdentity, d.Identity)
			return next(c)
		}
	}
}
