package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/catalog-system/internal/api/middleware"
	"github.com/campuskit/catalog-system/internal/core/domain"
)

// actor returns the authenticated principal for the request. Route guards
// reject anonymous requests before a handler runs, so a missing principal
// here is a wiring bug and surfaces as a 500.
func actor(c echo.Context) (domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return domain.Principal{}, echo.NewHTTPError(http.StatusInternalServerError, "no principal in context")
	}
	return *p, nil
}

// WantsJSON reports whether the client expects a structured response rather
// than an interactive redirect. XHR requests and anything negotiating
// application/json qualify.
func WantsJSON(c echo.Context) bool {
	if c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// respond finishes a mutating interactive flow with a redirect, or a
// structured flow with the given status and payload.
func respond(c echo.Context, status int, payload any, redirectTo string) error {
	if WantsJSON(c) {
		if payload == nil {
			return c.NoContent(status)
		}
		return c.JSON(status, payload)
	}
	return c.Redirect(http.StatusSeeOther, redirectTo)
}
