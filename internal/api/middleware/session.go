package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/core/session"
	"github.com/99minutos/staff-portal/internal/infrastructure/token"
)

// SessionCookie carries the signed session token.
const SessionCookie = "portal_session"

// SessionConfig wires the Session middleware.
type SessionConfig struct {
	Issuer      *token.Issuer
	Revocations ports.RevocationStore
	Secure      bool
	Log         zerolog.Logger
}

// Session hydrates a session.Store for the request from the session cookie
// (or a Bearer token) and keeps the cookie in step with the store: signing
// in issues a token, signing out revokes it and clears the cookie.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := cfg.restore(c)

			store := session.NewStore()
			if claims != nil {
				if identity, err := claims.Identity(); err == nil {
					if restored, err := session.Restore(identity); err == nil {
						store = restored
					}
				}
			}

			unsubscribe := store.Subscribe(func(_, to domain.SessionIdentity) {
				if claims != nil {
					cfg.revoke(c, claims)
				}
				if !to.Authenticated() {
					claims = nil
					cfg.clearCookie(c)
					return
				}
				issued, err := cfg.Issuer.Issue(to)
				if err != nil {
					cfg.Log.Error().Err(err).Msg("issue session token")
					return
				}
				claims = &token.Claims{Role: string(to.Role), Username: to.Username}
				claims.ID = issued.ID
				claims.ExpiresAt = jwt.NewNumericDate(issued.ExpiresAt)
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    issued.Value,
					Path:     "/",
					Expires:  issued.ExpiresAt,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			})
			defer unsubscribe()

			c.Set(ctxSession, store)
			return next(c)
		}
	}
}

// restore returns the claims of a valid, unrevoked token, or nil.
func (cfg SessionConfig) restore(c echo.Context) *token.Claims {
	raw := tokenFromRequest(c)
	if raw == "" {
		return nil
	}
	claims, err := cfg.check(c, raw)
	if err != nil {
		cfg.Log.Debug().Err(err).Msg("discarding session token")
		return nil
	}
	return claims
}

// check parses raw and consults the revocation list. A signed-out token
// yields domain.ErrTokenRevoked.
func (cfg SessionConfig) check(c echo.Context, raw string) (*token.Claims, error) {
	claims, err := cfg.Issuer.Parse(raw)
	if err != nil {
		return nil, err
	}
	if cfg.Revocations == nil || claims.ID == "" {
		return claims, nil
	}
	revoked, err := cfg.Revocations.IsRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		// Fail closed: an unreadable revocation list means anonymous.
		cfg.Log.Error().Err(err).Msg("revocation lookup failed")
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("token %s: %w", claims.ID, domain.ErrTokenRevoked)
	}
	return claims, nil
}

func (cfg SessionConfig) revoke(c echo.Context, claims *token.Claims) {
	if cfg.Revocations == nil || claims.ID == "" {
		return
	}
	ttl := cfg.Issuer.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := cfg.Revocations.Revoke(c.Request().Context(), claims.ID, ttl); err != nil {
		cfg.Log.Error().Err(err).Str("token_id", claims.ID).Msg("revoke session token")
	}
}

func (cfg SessionConfig) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenFromRequest prefers the session cookie and falls back to an
// "Authorization: Bearer <token>" header for API clients.
func tokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireSession answers 401 for anonymous requests to API routes.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !Store(c).Current().Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
