package handlers

import (
	"errors"
	"net/http"
	"time"

	"menumart/internal/common"
	"menumart/internal/models"
	"menumart/internal/repositories"
	"menumart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantHandlers handles tenant-related HTTP requests
type TenantHandlers struct {
	tenantService   services.TenantService
	brandingService services.BrandingService
}

func NewTenantHandlers(tenantService services.TenantService, brandingService services.BrandingService) *TenantHandlers {
	return &TenantHandlers{
		tenantService:   tenantService,
		brandingService: brandingService,
	}
}

// ListTenantsRequest represents query parameters for listing tenants
type ListTenantsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListTenants handles getting a list of tenants (super-user only)
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	var req ListTenantsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	tenants, err := h.tenantService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tenants")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tenants": tenants,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

// CreateTenant handles creating a new tenant (super-user only)
func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	var req services.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := h.tenantService.Create(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) || errors.Is(err, models.ErrOutOfRange) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create tenant")
	}

	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant handles getting tenant details by ID
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	tenantID, err := parseTenantID(c)
	if err != nil {
		return err
	}

	tenant, err := h.tenantService.GetByID(c.Request().Context(), tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get tenant")
	}

	return c.JSON(http.StatusOK, tenant)
}

// GetTenantBySlug handles getting tenant details by slug. Used by the menu
// frontends to resolve branding for a storefront URL.
func (h *TenantHandlers) GetTenantBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Slug is required")
	}

	tenant, err := h.tenantService.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
		}
		if errors.Is(err, models.ErrInvalidArgument) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get tenant")
	}

	return c.JSON(http.StatusOK, tenant)
}

// UpdateTenantRequest represents the tenant update request payload
type UpdateTenantRequest struct {
	Name         *string              `json:"name"`
	Status       *models.TenantStatus `json:"status"`
	LogoURL      *string              `json:"logo_url"`
	PrimaryColor *string              `json:"primary_color"`
}

// UpdateTenant handles updating tenant details. The slug never changes
// after creation, so it is not part of the payload.
func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	tenantID, err := parseTenantID(c)
	if err != nil {
		return err
	}

	var req UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	existing, err := h.tenantService.GetByID(c.Request().Context(), tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get tenant")
	}

	updateReq := &services.UpdateTenantRequest{
		ID:           tenantID,
		Name:         existing.Name,
		Status:       existing.Status,
		LogoURL:      existing.LogoURL,
		PrimaryColor: existing.PrimaryColor,
	}
	if req.Name != nil {
		updateReq.Name = *req.Name
	}
	if req.Status != nil {
		updateReq.Status = *req.Status
	}
	if req.LogoURL != nil {
		updateReq.LogoURL = req.LogoURL
	}
	if req.PrimaryColor != nil {
		updateReq.PrimaryColor = req.PrimaryColor
	}

	updated, err := h.tenantService.Update(c.Request().Context(), updateReq)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) || errors.Is(err, models.ErrOutOfRange) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update tenant")
	}

	return c.JSON(http.StatusOK, updated)
}

// UpdateAuthConfiguration handles replacing a tenant's sign-in settings.
// The whole configuration is validated before any field is persisted.
func (h *TenantHandlers) UpdateAuthConfiguration(c echo.Context) error {
	tenantID, err := parseTenantID(c)
	if err != nil {
		return err
	}

	var cfg models.AuthConfiguration
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := h.tenantService.UpdateAuthConfiguration(c.Request().Context(), tenantID, cfg)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
		}
		if errors.Is(err, models.ErrInvalidArgument) || errors.Is(err, models.ErrOutOfRange) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update auth configuration")
	}

	return c.JSON(http.StatusOK, tenant)
}

// UploadLogo stores a tenant logo in object storage and records the
// resulting URL on the tenant.
func (h *TenantHandlers) UploadLogo(c echo.Context) error {
	tenantID, err := parseTenantID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Logo file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read logo file")
	}
	defer src.Close()

	existing, err := h.tenantService.GetByID(c.Request().Context(), tenantID)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get tenant")
	}

	logoURL, err := h.brandingService.UploadLogo(c.Request().Context(), tenantID, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload logo")
	}

	updated, err := h.tenantService.Update(c.Request().Context(), &services.UpdateTenantRequest{
		ID:           tenantID,
		Name:         existing.Name,
		Status:       existing.Status,
		LogoURL:      &logoURL,
		PrimaryColor: existing.PrimaryColor,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Logo uploaded but failed to update tenant")
	}

	return c.JSON(http.StatusOK, updated)
}

// GetLogoURL returns a short-lived presigned URL for a tenant's logo.
func (h *TenantHandlers) GetLogoURL(c echo.Context) error {
	tenantID, err := parseTenantID(c)
	if err != nil {
		return err
	}

	url, err := h.brandingService.GetLogoURL(c.Request().Context(), tenantID, 15*time.Minute)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Logo not found")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// DeleteTenant handles deleting a tenant (super-user only)
func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	tenantID, err := parseTenantID(c)
	if err != nil {
		return err
	}

	if err := h.tenantService.Delete(c.Request().Context(), tenantID); err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete tenant")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Tenant deleted successfully",
	})
}

func parseTenantID(c echo.Context) (uuid.UUID, error) {
	tenantID, err := common.ValidateUUID(c.Param("id"), "tenant ID")
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return tenantID, nil
}
