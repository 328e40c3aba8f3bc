package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"menumart/internal/models"
	"menumart/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListEnabled(ctx context.Context) ([]*models.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	args := m.Called(ctx, tenant, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteTenant(ctx context.Context, tenantID uuid.UUID, slug string) error {
	args := m.Called(ctx, tenantID, slug)
	return args.Error(0)
}

func (m *MockCacheService) GetTenantIDBySlug(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type TenantServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockTenantRepository
	mockCache *MockCacheService
	service   TenantService
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockTenantRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewTenantService(suite.mockRepo, suite.mockCache)

	suite.mockRepo.Test(suite.T())
	suite.mockCache.Test(suite.T())
}

func (suite *TenantServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (suite *TenantServiceTestSuite) TestCreate_Success() {
	ctx := context.Background()
	req := &CreateTenantRequest{
		Name:   "Acme Corp",
		Status: models.TenantEnabled,
	}

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Tenant")).Return(nil).Run(func(args mock.Arguments) {
		tenant := args.Get(1).(*models.Tenant)
		assert.Equal(suite.T(), "Acme Corp", tenant.Name)
		assert.Equal(suite.T(), "acme-corp", tenant.Slug)
		assert.Equal(suite.T(), models.TenantEnabled, tenant.Status)
		assert.NotEqual(suite.T(), uuid.Nil, tenant.ID)
		assert.Equal(suite.T(), models.DefaultAuthConfiguration(), tenant.AuthConfig)
	})
	suite.mockCache.On("SetTenant", ctx, mock.AnythingOfType("*models.Tenant"), tenantCacheTTL).Return(nil)

	tenant, err := suite.service.Create(ctx, req)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), tenant)
	assert.Equal(suite.T(), "acme-corp", tenant.Slug)
}

func (suite *TenantServiceTestSuite) TestCreate_EmptyName() {
	ctx := context.Background()
	req := &CreateTenantRequest{
		Name:   "   ",
		Status: models.TenantEnabled,
	}

	tenant, err := suite.service.Create(ctx, req)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidArgument)
	assert.Nil(suite.T(), tenant)
}

func (suite *TenantServiceTestSuite) TestCreate_RepositoryError() {
	ctx := context.Background()
	req := &CreateTenantRequest{
		Name:   "Acme Corp",
		Status: models.TenantEnabled,
	}

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Tenant")).Return(errors.New("database connection failed"))

	tenant, err := suite.service.Create(ctx, req)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), tenant)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *TenantServiceTestSuite) TestGetByID_CacheHit() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	suite.mockCache.On("GetTenant", ctx, tenant.ID).Return(tenant, nil)

	got, err := suite.service.GetByID(ctx, tenant.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant, got)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *TenantServiceTestSuite) TestGetByID_CacheMissFallsBackToRepo() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	suite.mockCache.On("GetTenant", ctx, tenant.ID).Return(nil, nil)
	suite.mockRepo.On("GetByID", ctx, tenant.ID).Return(tenant, nil)
	suite.mockCache.On("SetTenant", ctx, tenant, tenantCacheTTL).Return(nil)

	got, err := suite.service.GetByID(ctx, tenant.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant, got)
}

func (suite *TenantServiceTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	tenantID := uuid.New()

	suite.mockCache.On("GetTenant", ctx, tenantID).Return(nil, nil)
	suite.mockRepo.On("GetByID", ctx, tenantID).Return(nil, repositories.ErrTenantNotFound)

	got, err := suite.service.GetByID(ctx, tenantID)
	assert.ErrorIs(suite.T(), err, repositories.ErrTenantNotFound)
	assert.Nil(suite.T(), got)
}

func (suite *TenantServiceTestSuite) TestGetBySlug_EmptySlug() {
	ctx := context.Background()

	got, err := suite.service.GetBySlug(ctx, "")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidArgument)
	assert.Nil(suite.T(), got)
}

func (suite *TenantServiceTestSuite) TestGetBySlug_CacheMiss() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	suite.mockCache.On("GetTenantIDBySlug", ctx, "acme-corp").Return(uuid.Nil, false, nil)
	suite.mockRepo.On("GetBySlug", ctx, "acme-corp").Return(tenant, nil)
	suite.mockCache.On("SetTenant", ctx, tenant, tenantCacheTTL).Return(nil)

	got, err := suite.service.GetBySlug(ctx, "acme-corp")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant, got)
}

func (suite *TenantServiceTestSuite) TestUpdate_PreservesSlug() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	req := &UpdateTenantRequest{
		ID:     tenant.ID,
		Name:   "Globex Inc",
		Status: models.TenantDisabled,
	}

	suite.mockRepo.On("GetByID", ctx, tenant.ID).Return(tenant, nil)
	suite.mockRepo.On("Update", ctx, mock.AnythingOfType("*models.Tenant")).Return(nil).Run(func(args mock.Arguments) {
		updated := args.Get(1).(*models.Tenant)
		assert.Equal(suite.T(), "Globex Inc", updated.Name)
		assert.Equal(suite.T(), "acme-corp", updated.Slug)
		assert.Equal(suite.T(), models.TenantDisabled, updated.Status)
	})
	suite.mockCache.On("SetTenant", ctx, mock.AnythingOfType("*models.Tenant"), tenantCacheTTL).Return(nil)

	got, err := suite.service.Update(ctx, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "acme-corp", got.Slug)
}

func (suite *TenantServiceTestSuite) TestUpdate_InvalidNameDoesNotPersist() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	req := &UpdateTenantRequest{
		ID:     tenant.ID,
		Name:   "",
		Status: models.TenantEnabled,
	}

	suite.mockRepo.On("GetByID", ctx, tenant.ID).Return(tenant, nil)

	got, err := suite.service.Update(ctx, req)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidArgument)
	assert.Nil(suite.T(), got)
	suite.mockRepo.AssertNotCalled(suite.T(), "Update")
}

func (suite *TenantServiceTestSuite) TestUpdateAuthConfiguration_Success() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	cfg := models.DefaultAuthConfiguration()
	cfg.PrimaryAuthMethod = models.AuthMethodEmailOtp
	cfg.AllowEmailAuth = true
	cfg.OtpCodeLength = 10

	suite.mockRepo.On("GetByID", ctx, tenant.ID).Return(tenant, nil)
	suite.mockRepo.On("Update", ctx, mock.AnythingOfType("*models.Tenant")).Return(nil)
	suite.mockCache.On("SetTenant", ctx, mock.AnythingOfType("*models.Tenant"), tenantCacheTTL).Return(nil)

	got, err := suite.service.UpdateAuthConfiguration(ctx, tenant.ID, cfg)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cfg, got.AuthConfig)
}

func (suite *TenantServiceTestSuite) TestUpdateAuthConfiguration_OutOfRange() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	cfg := models.DefaultAuthConfiguration()
	cfg.OtpCodeLength = 11

	suite.mockRepo.On("GetByID", ctx, tenant.ID).Return(tenant, nil)

	got, err := suite.service.UpdateAuthConfiguration(ctx, tenant.ID, cfg)
	assert.ErrorIs(suite.T(), err, models.ErrOutOfRange)
	assert.Nil(suite.T(), got)
	suite.mockRepo.AssertNotCalled(suite.T(), "Update")
}

func (suite *TenantServiceTestSuite) TestDelete_InvalidatesCache() {
	ctx := context.Background()
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	suite.mockRepo.On("GetByID", ctx, tenant.ID).Return(tenant, nil)
	suite.mockRepo.On("Delete", ctx, tenant.ID).Return(nil)
	suite.mockCache.On("DeleteTenant", ctx, tenant.ID, "acme-corp").Return(nil)

	err = suite.service.Delete(ctx, tenant.ID)
	assert.NoError(suite.T(), err)
}

func (suite *TenantServiceTestSuite) TestList_DefaultsPagination() {
	ctx := context.Background()
	tenants := []*models.Tenant{}

	suite.mockRepo.On("List", ctx, 10, 0).Return(tenants, nil)

	got, err := suite.service.List(ctx, 0, -5)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenants, got)
}

func (suite *TenantServiceTestSuite) TestWarmCache() {
	ctx := context.Background()
	t1, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)
	t2, err := models.NewTenant("Pasta Palace", models.TenantEnabled, nil, nil)
	assert.NoError(suite.T(), err)

	suite.mockRepo.On("ListEnabled", ctx).Return([]*models.Tenant{t1, t2}, nil)
	suite.mockCache.On("SetTenant", ctx, t1, tenantCacheTTL).Return(nil)
	suite.mockCache.On("SetTenant", ctx, t2, tenantCacheTTL).Return(nil)

	err = suite.service.WarmCache(ctx)
	assert.NoError(suite.T(), err)
}
