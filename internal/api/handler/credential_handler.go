package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/staff-portal/internal/api/metrics"
	"github.com/99minutos/staff-portal/internal/api/middleware"
	"github.com/99minutos/staff-portal/internal/core/domain"
	"github.com/99minutos/staff-portal/internal/core/ports"
)

// CredentialHandler serves the credential endpoint and account management.
type CredentialHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewCredentialHandler(authService ports.AuthService, log zerolog.Logger) *CredentialHandler {
	return &CredentialHandler{authService: authService, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

type loginResponse struct {
	User userPayload `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,portal_email"`
	Password string `json:"password" validate:"required,portal_password"`
	Role     string `json:"role"     validate:"required,oneof=ADMIN EMPLOYEE"`
}

type validationResponse struct {
	Error  string      `json:"error"`
	Fields FieldErrors `json:"fields"`
}

type registerResponse struct {
	User *domain.User `json:"user"`
}

// Login verifies credentials and answers with the session identity.
//
// @Summary      Verify credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/login [post]
func (h *CredentialHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.CredentialVerificationsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}

	identity, err := h.authService.Verify(c.Request().Context(), ports.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		var rejected *domain.CredentialRejectedError
		if errors.As(err, &rejected) {
			metrics.CredentialVerificationsTotal.WithLabelValues("rejected").Inc()
			return c.JSON(rejected.Status, messageResponse{Message: rejected.Message})
		}
		metrics.CredentialVerificationsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("credential verification failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: domain.MessageUnexpected})
	}

	metrics.CredentialVerificationsTotal.WithLabelValues("verified").Inc()
	return c.JSON(http.StatusOK, loginResponse{User: userPayload{Role: string(identity.Role), Username: identity.Username}})
}

// Register creates a new portal account.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  validationResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *CredentialHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		var fields FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, validationResponse{Error: "invalid account details", Fields: fields})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	h.log.Info().
		Str("username", user.Username).
		Str("role", user.Role.String()).
		Str("created_by", middleware.Store(c).Current().Username).
		Msg("account registered")
	return c.JSON(http.StatusCreated, registerResponse{User: user})
}

// Session reports the identity of the caller.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  loginResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/session [get]
func (h *CredentialHandler) Session(c echo.Context) error {
	identity := middleware.Store(c).Current()
	return c.JSON(http.StatusOK, loginResponse{User: userPayload{Role: string(identity.Role), Username: identity.Username}})
}
