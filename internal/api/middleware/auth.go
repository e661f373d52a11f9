package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/pkg/security"
)

const (
	keyUserID    = "user_id"
	keyPrincipal = "principal"
)

// Auth validates the bearer access token and injects the caller's user id.
func Auth(tokens *security.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Parse(parts[1], security.TokenTypeAccess)
			if err != nil {
				msg := "Given token not valid for any token type"
				if errors.Is(err, security.ErrExpiredToken) {
					msg = "Token is expired"
				}
				return echo.NewHTTPError(http.StatusUnauthorized, msg)
			}

			c.Set(keyUserID, claims.UserID)
			return next(c)
		}
	}
}

// LoadPrincipal resolves the authenticated user and their current roles. Roles
// are read on every request so revocations apply immediately.
func LoadPrincipal(identity ports.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(keyUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}
			p, err := identity.LoadPrincipal(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					return echo.NewHTTPError(http.StatusUnauthorized, "User not found or inactive.")
				}
				return err
			}
			c.Set(keyPrincipal, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by LoadPrincipal.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(keyPrincipal).(domain.Principal)
	return p, ok && p.User != nil
}
