package handlers

import (
	"net/http"

	"menumart/internal/tenancy"

	"github.com/labstack/echo/v4"
)

// ContextHandlers exposes the caller's resolved tenant context. Frontends
// use it to decide which tenant scope the session operates in.
type ContextHandlers struct{}

func NewContextHandlers() *ContextHandlers {
	return &ContextHandlers{}
}

// GetContext returns the tenant context resolved from the caller's token.
// Super-users get a context with no tenant or user ID.
func (h *ContextHandlers) GetContext(c echo.Context) error {
	tc, ok := tenancy.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, tc)
}
