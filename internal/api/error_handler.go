package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/api/handler"
	"github.com/campuskit/catalog-system/internal/api/metrics"
	"github.com/campuskit/catalog-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for structured clients.
// Fields is populated only for validation-class failures.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// NewHTTPErrorHandler maps the domain error taxonomy to deterministic HTTP
// outcomes. Browser clients get a redirect back to /login when they are not
// authenticated; structured clients get a 401 envelope. Wrong-role denials
// are terminal 403 either way. Unexpected errors are logged with full
// context and surface as an opaque 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// echo's own errors: bind failures, router 404s, etc.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				log.Error().Err(he.Internal).Str("path", c.Path()).Msg("internal handler error")
			}
			_ = c.JSON(he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)})
			return
		}

		var ve *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			metrics.AuthDenialsTotal.WithLabelValues("unauthenticated").Inc()
			if handler.WantsJSON(c) {
				_ = c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required"})
				return
			}
			_ = c.Redirect(http.StatusSeeOther, "/login")

		case errors.Is(err, domain.ErrForbidden):
			metrics.AuthDenialsTotal.WithLabelValues("forbidden").Inc()
			_ = c.JSON(http.StatusForbidden, errorResponse{Error: "access denied: insufficient privileges"})

		case errors.Is(err, domain.ErrSelfDeletion):
			_ = c.JSON(http.StatusForbidden, errorResponse{Error: "you cannot delete your own account"})

		case errors.As(err, &ve):
			_ = c.JSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: ve.Fields})

		case errors.Is(err, domain.ErrUsernameTaken):
			_ = c.JSON(http.StatusConflict, errorResponse{
				Error:  "validation failed",
				Fields: []domain.FieldError{{Field: "username", Message: "username already exists"}},
			})

		case errors.Is(err, domain.ErrInvalidCredentials):
			if handler.WantsJSON(c) {
				_ = c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
				return
			}
			_ = c.Redirect(http.StatusSeeOther, "/login")

		case errors.Is(err, domain.ErrUserNotFound):
			_ = c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})

		case errors.Is(err, domain.ErrItemNotFound):
			_ = c.JSON(http.StatusNotFound, errorResponse{Error: "item not found"})

		case errors.Is(err, domain.ErrStorageUnavailable):
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("storage unavailable")
			_ = c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})

		default:
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			_ = c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		}
	}
}
