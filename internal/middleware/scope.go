package middleware

import (
	"net/http"

	"menumart/internal/tenancy"

	"github.com/labstack/echo/v4"
)

// RequireTenant rejects requests whose resolved context carries no tenant.
// Super-users pass through: they operate across tenants and deliberately
// resolve without one.
func RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, ok := tenancy.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			if tc.IsSuperUser {
				return next(c)
			}
			if tc.TenantID == nil {
				return echo.NewHTTPError(http.StatusForbidden, "No tenant associated with this request")
			}
			return next(c)
		}
	}
}

// RequireSuperUser restricts an endpoint to cross-tenant administrators.
func RequireSuperUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc, ok := tenancy.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			if !tc.IsSuperUser {
				return echo.NewHTTPError(http.StatusForbidden, "Super-user access required")
			}
			return next(c)
		}
	}
}
