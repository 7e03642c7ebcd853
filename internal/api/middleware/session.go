package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/catalog-system/internal/api/session"
	"github.com/campuskit/catalog-system/internal/core/domain"
)

// principalKey is the echo context slot holding the resolved principal.
const principalKey = "principal"

// Session resolves the request's principal from the session cookie and
// exposes it to downstream stages as read-only context. It never rejects a
// request itself: absence of a principal just means anonymous, and the
// guards decide what that implies.
func Session(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if cookie, err := c.Cookie(session.CookieName); err == nil {
				token = cookie.Value
			}

			p, err := m.Resolve(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed").SetInternal(err)
			}
			if p != nil {
				c.Set(principalKey, p)
			}

			return next(c)
		}
	}
}

// PrincipalFrom returns the principal resolved for this request, or nil for
// an anonymous visitor.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}
