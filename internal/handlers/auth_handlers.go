package handlers

import (
	"errors"
	"net/http"

	"menumart/internal/models"
	"menumart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthHandlers issues and revokes service tokens. Both endpoints are
// super-user only: tenant users authenticate through the identity
// provider, not through this API.
type AuthHandlers struct {
	tokenService services.TokenService
}

func NewAuthHandlers(tokenService services.TokenService) *AuthHandlers {
	return &AuthHandlers{tokenService: tokenService}
}

// IssueTokenRequest represents the token issuance payload
type IssueTokenRequest struct {
	UserID   string   `json:"user_id" validate:"required"`
	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles"`
}

// IssueToken mints a signed token for the given user. TenantID is optional:
// tokens for cross-tenant administrators omit it.
func (h *AuthHandlers) IssueToken(c echo.Context) error {
	var req IssueTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user_id format")
	}

	var tenantID *uuid.UUID
	if req.TenantID != "" {
		tid, err := uuid.Parse(req.TenantID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant_id format")
		}
		tenantID = &tid
	}

	token, err := h.tokenService.Issue(c.Request().Context(), userID, tenantID, req.Roles)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(http.StatusOK, token)
}

// RevokeToken adds a token to the denylist by its token ID.
func (h *AuthHandlers) RevokeToken(c echo.Context) error {
	var req models.RevokeTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.tokenService.Revoke(c.Request().Context(), req.TokenID); err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Token revoked successfully",
	})
}
