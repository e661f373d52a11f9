package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
)

// RBAC admits is_staff users and holders of any role in allowed.
func RBAC(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}
			if !p.CanSeeAll(allowed) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireRole admits only holders of a role in allowed. is_staff without such
// a role is forbidden.
func RequireRole(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}
			if !p.Holds(allowed) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
