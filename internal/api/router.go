package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/staff-portal/docs"
	"github.com/99minutos/staff-portal/internal/api/handler"
	"github.com/99minutos/staff-portal/internal/api/middleware"
	"github.com/99minutos/staff-portal/internal/api/view"
	"github.com/99minutos/staff-portal/internal/core/access"
	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/loginform"
	"github.com/99minutos/staff-portal/internal/core/ports"
	"github.com/99minutos/staff-portal/internal/infrastructure/token"
	"github.com/99minutos/staff-portal/internal/pkg/config"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config *config.Config
	Log    zerolog.Logger
	// Verifier backs the login form. It is either AuthService itself or a
	// client of a remote credential endpoint.
	Verifier    ports.CredentialVerifier
	AuthService ports.AuthService
	Revocations ports.RevocationStore
	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handler.Pinger
	// Metrics receives the HTTP metrics; nil means the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds the Echo instance with every route registered.
func NewRouter(deps Deps) (*echo.Echo, error) {
	cfg := deps.Config
	log := deps.Log

	renderer, err := view.New()
	if err != nil {
		return nil, err
	}
	forms, err := handler.NewFormRegistry(cfg.Session.FormCacheSize, func() *loginform.Form {
		return loginform.New(deps.Verifier,
			loginform.WithLogger(log.With().Str("component", "loginform").Logger()),
			loginform.WithNotificationTTL(cfg.Session.NotificationTTL),
		)
	})
	if err != nil {
		return nil, err
	}
	issuer := token.NewIssuer(cfg.Session.JWTSecret, cfg.Session.TTL)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	if deps.Metrics != nil {
		gatherer, registerer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registerer,
	}))

	// --- Probes and docs (no session) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Ready)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session-aware routes ---
	app := e.Group("",
		middleware.Client(cfg.Session.CookieSecure),
		middleware.Session(middleware.SessionConfig{
			Issuer:      issuer,
			Revocations: deps.Revocations,
			Secure:      cfg.Session.CookieSecure,
			Log:         log.With().Str("component", "session").Logger(),
		}),
	)

	guardLog := log.With().Str("component", "guard").Logger()
	loginHandler := handler.NewLoginHandler(forms, log.With().Str("component", "login").Logger())
	pageHandler := handler.NewPageHandler()

	pages := map[string]echo.HandlerFunc{
		access.Login.Name:        loginHandler.Show,
		access.AdminHome.Name:    pageHandler.Admin,
		access.EmployeeHome.Name: pageHandler.Employee,
	}
	for _, dest := range access.Destinations() {
		page, ok := pages[dest.Name]
		if !ok {
			return nil, fmt.Errorf("no page for destination %q", dest.Name)
		}
		app.GET(dest.Path, page, middleware.Guard(dest, guardLog))
	}
	app.POST(access.Login.Path, loginHandler.Submit, middleware.Guard(access.Login, guardLog))
	app.POST("/login/blur", loginHandler.Blur)
	app.POST("/login/notification/close", loginHandler.CloseNotification)
	app.POST("/logout", loginHandler.Logout)

	// --- JSON API ---
	credentialHandler := handler.NewCredentialHandler(deps.AuthService, log.With().Str("component", "credentials").Logger())
	app.POST("/api/login", credentialHandler.Login)
	app.GET("/api/session", credentialHandler.Session, middleware.RequireSession())
	app.POST("/api/users", credentialHandler.Register, middleware.RBAC(domain.RoleAdmin))

	return e, nil
}
