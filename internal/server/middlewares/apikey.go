package middlewares

import (
	"net/http"

	"github.com/Pyle49R/littlenodedatabase/internal/lnerror"
	"github.com/labstack/echo/v4"
)

// A Role is the authorization tier derived from the presented credential.
type Role string

const (
	// RoleAdmin grants every operation.
	RoleAdmin Role = "admin"
	// RoleReadOnly grants read operations only.
	RoleReadOnly Role = "readonly"
)

const (
	// APIKeyHeader is the header carrying the raw API key.
	APIKeyHeader = "X-Api-Key"
	// CurrentRoleContextKey is the key to retrieve the current role from echo.Context.
	CurrentRoleContextKey = "current_role"

	// MinAdminSecretLength is enforced at startup. A missing or shorter
	// admin secret is fatal to the whole process.
	MinAdminSecretLength = 20
	// MinReadOnlySecretLength under which the read-only tier is disabled.
	MinReadOnlySecretLength = 10
)

// A Keyring holds the two configured secrets.
// An empty ReadOnlySecret means the read-only tier is disabled and only the
// admin secret grants read access.
type Keyring struct {
	AdminSecret    string
	ReadOnlySecret string
}

func (k Keyring) role(credential string) (Role, bool) {
	if credential == "" {
		return "", false
	}
	if credential == k.AdminSecret {
		return RoleAdmin, true
	}
	if k.ReadOnlySecret != "" && credential == k.ReadOnlySecret {
		return RoleReadOnly, true
	}
	return "", false
}

// RequireReadAccess accepts the admin and read-only tiers.
// It stores the resolved role into echo.Context.
func RequireReadAccess(k Keyring) echo.MiddlewareFunc {
	return requireRole(k, map[Role]bool{RoleAdmin: true, RoleReadOnly: true})
}

// RequireAdminAccess accepts the admin tier only.
// It stores the resolved role into echo.Context.
func RequireAdminAccess(k Keyring) echo.MiddlewareFunc {
	return requireRole(k, map[Role]bool{RoleAdmin: true})
}

func requireRole(k Keyring, accepted map[Role]bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A missing credential and a wrong one get the exact same
			// rejection, so the response is no oracle for key probing.
			role, ok := k.role(c.Request().Header.Get(APIKeyHeader))
			if !ok || !accepted[role] {
				return c.JSON(http.StatusUnauthorized, lnerror.AccessDenied())
			}

			c.Set(CurrentRoleContextKey, role)
			return next(c)
		}
	}
}
