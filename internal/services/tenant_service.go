package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"menumart/internal/caching"
	"menumart/internal/models"
	"menumart/internal/repositories"

	"github.com/google/uuid"
)

const tenantCacheTTL = 10 * time.Minute

type TenantService interface {
	Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	Update(ctx context.Context, req *UpdateTenantRequest) (*models.Tenant, error)
	UpdateAuthConfiguration(ctx context.Context, id uuid.UUID, cfg models.AuthConfiguration) (*models.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	WarmCache(ctx context.Context) error
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
}

func NewTenantService(tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService) TenantService {
	return &tenantService{tenantRepo: tenantRepo, cacheSvc: cacheSvc}
}

type CreateTenantRequest struct {
	Name         string              `json:"name" validate:"required"`
	Status       models.TenantStatus `json:"status"`
	LogoURL      *string             `json:"logo_url"`
	PrimaryColor *string             `json:"primary_color"`
}

type UpdateTenantRequest struct {
	ID           uuid.UUID
	Name         string              `json:"name" validate:"required"`
	Status       models.TenantStatus `json:"status"`
	LogoURL      *string             `json:"logo_url"`
	PrimaryColor *string             `json:"primary_color"`
}

func (s *tenantService) Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	tenant, err := models.NewTenant(req.Name, req.Status, req.LogoURL, req.PrimaryColor)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	s.cacheTenant(ctx, tenant)
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	if cached, err := s.cacheSvc.GetTenant(ctx, id); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: tenant cache lookup failed for %s: %v", id, err)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheTenant(ctx, tenant)
	return tenant, nil
}

func (s *tenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	if id, ok, err := s.cacheSvc.GetTenantIDBySlug(ctx, slug); err == nil && ok {
		if cached, err := s.cacheSvc.GetTenant(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.cacheTenant(ctx, tenant)
	return tenant, nil
}

func (s *tenantService) Update(ctx context.Context, req *UpdateTenantRequest) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := tenant.Update(req.Name, req.Status, req.LogoURL, req.PrimaryColor); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	s.cacheTenant(ctx, tenant)
	return tenant, nil
}

func (s *tenantService) UpdateAuthConfiguration(ctx context.Context, id uuid.UUID, cfg models.AuthConfiguration) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tenant.UpdateAuthConfiguration(cfg); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	s.cacheTenant(ctx, tenant)
	return tenant, nil
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.tenantRepo.List(ctx, limit, offset)
}

func (s *tenantService) Delete(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cacheSvc.DeleteTenant(ctx, id, tenant.Slug); err != nil {
		log.Printf("WARN: failed to invalidate tenant cache for %s: %v", id, err)
	}
	return nil
}

// WarmCache loads every enabled tenant into the cache. Run periodically by
// the background scheduler so slug lookups rarely hit the database.
func (s *tenantService) WarmCache(ctx context.Context) error {
	tenants, err := s.tenantRepo.ListEnabled(ctx)
	if err != nil {
		return err
	}

	for _, tenant := range tenants {
		if err := s.cacheSvc.SetTenant(ctx, tenant, tenantCacheTTL); err != nil {
			log.Printf("WARN: failed to warm cache for tenant %s: %v", tenant.ID, err)
		}
	}
	return nil
}

func (s *tenantService) cacheTenant(ctx context.Context, tenant *models.Tenant) {
	if err := s.cacheSvc.SetTenant(ctx, tenant, tenantCacheTTL); err != nil {
		log.Printf("WARN: failed to cache tenant %s: %v", tenant.ID, err)
	}
}

func validateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("%w: slug is required", models.ErrInvalidArgument)
	}
	return nil
}
