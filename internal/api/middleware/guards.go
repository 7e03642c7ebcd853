package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

// Decision is the outcome of evaluating a requirement against a principal.
type Decision int

const (
	Allowed Decision = iota
	// Unauthenticated: no identity at all. The boundary re-prompts for
	// credentials rather than denying outright.
	Unauthenticated
	// Forbidden: an identity exists but its role does not satisfy the
	// requirement. Terminal for the request.
	Forbidden
)

// Requirement describes what a guard demands of the principal. A zero Role
// demands authentication only.
type Requirement struct {
	Role domain.Role
}

// Authorize is the pure decision function behind the guard middleware.
// Authentication failure and authorization failure are deliberately distinct
// outcomes and must not be conflated.
func Authorize(p *domain.Principal, req Requirement) Decision {
	if p == nil {
		return Unauthenticated
	}
	if req.Role != "" && p.Role != req.Role {
		return Forbidden
	}
	return Allowed
}

// RequireAuthenticated passes only requests with a resolved principal.
func RequireAuthenticated() echo.MiddlewareFunc {
	return guard(Requirement{})
}

// RequireRole passes only principals holding exactly the given role.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return guard(Requirement{Role: role})
}

// guard adapts Authorize into echo middleware. Guards compose left to
// right; the first failure determines the outcome and nothing after it
// runs. Presentation of the failure belongs to the error handler.
func guard(req Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch Authorize(PrincipalFrom(c), req) {
			case Unauthenticated:
				return domain.ErrUnauthenticated
			case Forbidden:
				return domain.ErrForbidden
			default:
				return next(c)
			}
		}
	}
}
