package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/api/metrics"
	"github.com/campuskit/catalog-system/internal/api/session"
	"github.com/campuskit/catalog-system/internal/api/validation"
	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

// AuthHandler owns the login, registration and logout flows.
type AuthHandler struct {
	auth     ports.AuthService
	sessions *session.Manager
	secure   bool
	log      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, sessions *session.Manager, secure bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, secure: secure, log: log}
}

// Login verifies credentials, issues a fresh session and sets the session
// cookie. Browser clients are redirected to their role's landing page.
func (h *AuthHandler) Login(c echo.Context) error {
	req, err := bind[loginRequest](c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	principal, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		h.log.Warn().Str("username", req.Username).Msg("login rejected")
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	token, err := h.sessions.Issue(c.Request().Context(), *principal)
	if err != nil {
		return err
	}
	c.SetCookie(h.sessions.Cookie(token, h.secure))

	h.log.Info().
		Int64("user_id", principal.ID).
		Str("role", string(principal.Role)).
		Msg("login succeeded")

	return respond(c, http.StatusOK, loginResponse{User: *principal}, landingPath(principal.Role))
}

// Register creates a new account. The role is chosen by the caller; the
// rule set restricts it to the closed set.
func (h *AuthHandler) Register(c echo.Context) error {
	req, err := bind[userFormRequest](c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}

	normalized, failures := validation.Evaluate(validation.UserCreate, req.fields())
	if len(failures) > 0 {
		metrics.ValidationFailuresTotal.WithLabelValues(validation.UserCreate.Name).Inc()
		return domain.NewValidationError(failures...)
	}

	id, err := h.auth.Register(c.Request().Context(),
		normalized["username"], normalized["password"], domain.Role(normalized["role"]))
	if err != nil {
		return err
	}

	h.log.Info().Int64("user_id", id).Msg("account registered")
	return respond(c, http.StatusCreated, idResponse{ID: id}, "/login")
}

// Logout destroys the server-side session and expires the cookie. It is
// idempotent: logging out without a session still lands on /login.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if err := h.sessions.Destroy(c.Request().Context(), cookie.Value); err != nil {
			h.log.Error().Err(err).Msg("session destroy failed")
		}
	}
	c.SetCookie(session.ExpiredCookie())
	return respond(c, http.StatusNoContent, nil, "/login")
}

func landingPath(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin"
	}
	return "/student"
}
