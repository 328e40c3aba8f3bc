package repositories

import (
	"context"
	"testing"

	"menumart/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TenantRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    TenantRepository
	context context.Context
}

func (suite *TenantRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTenantRepo(mock)
	suite.context = context.Background()
}

func (suite *TenantRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTenantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepoTestSuite))
}

func testTenant(t *testing.T) *models.Tenant {
	tenant, err := models.NewTenant("Acme Corp", models.TenantEnabled, nil, nil)
	assert.NoError(t, err)
	return tenant
}

func tenantRows(tenant *models.Tenant) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "slug", "status", "logo_url", "primary_color",
		"primary_auth_method", "allow_phone_auth", "allow_email_auth",
		"otp_code_length", "otp_expiry_minutes", "sms_provider", "require_sms_verification",
		"created_at", "updated_at",
	}).AddRow(
		tenant.ID, tenant.Name, tenant.Slug, int(tenant.Status), tenant.LogoURL, tenant.PrimaryColor,
		int(tenant.AuthConfig.PrimaryAuthMethod), tenant.AuthConfig.AllowPhoneAuth, tenant.AuthConfig.AllowEmailAuth,
		tenant.AuthConfig.OtpCodeLength, tenant.AuthConfig.OtpExpiryMinutes, tenant.AuthConfig.SMSProvider,
		tenant.AuthConfig.RequireSMSVerification, tenant.CreatedAt, tenant.UpdatedAt,
	)
}

func (suite *TenantRepoTestSuite) TestCreate_Success() {
	tenant := testTenant(suite.T())

	suite.mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs(
			tenant.ID, tenant.Name, tenant.Slug, int(tenant.Status), tenant.LogoURL, tenant.PrimaryColor,
			int(tenant.AuthConfig.PrimaryAuthMethod), tenant.AuthConfig.AllowPhoneAuth, tenant.AuthConfig.AllowEmailAuth,
			tenant.AuthConfig.OtpCodeLength, tenant.AuthConfig.OtpExpiryMinutes, tenant.AuthConfig.SMSProvider,
			tenant.AuthConfig.RequireSMSVerification, tenant.CreatedAt, tenant.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, tenant)
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestGetByID_RoundTripsAuthConfig() {
	tenant := testTenant(suite.T())
	provider := "Twilio"
	tenant.AuthConfig.PrimaryAuthMethod = models.AuthMethodPhoneOtp
	tenant.AuthConfig.AllowPhoneAuth = true
	tenant.AuthConfig.OtpCodeLength = 8
	tenant.AuthConfig.SMSProvider = &provider

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants\s+WHERE id = \$1`).
		WithArgs(tenant.ID).
		WillReturnRows(tenantRows(tenant))

	got, err := suite.repo.GetByID(suite.context, tenant.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant.ID, got.ID)
	assert.Equal(suite.T(), tenant.Slug, got.Slug)
	assert.Equal(suite.T(), models.AuthMethodPhoneOtp, got.AuthConfig.PrimaryAuthMethod)
	assert.True(suite.T(), got.AuthConfig.AllowPhoneAuth)
	assert.Equal(suite.T(), 8, got.AuthConfig.OtpCodeLength)
	assert.Equal(suite.T(), "Twilio", *got.AuthConfig.SMSProvider)
}

func (suite *TenantRepoTestSuite) TestGetByID_NotFound() {
	tenantID := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants\s+WHERE id = \$1`).
		WithArgs(tenantID).
		WillReturnError(pgx.ErrNoRows)

	got, err := suite.repo.GetByID(suite.context, tenantID)
	assert.ErrorIs(suite.T(), err, ErrTenantNotFound)
	assert.Nil(suite.T(), got)
}

func (suite *TenantRepoTestSuite) TestGetBySlug_Success() {
	tenant := testTenant(suite.T())

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants\s+WHERE slug = \$1`).
		WithArgs(tenant.Slug).
		WillReturnRows(tenantRows(tenant))

	got, err := suite.repo.GetBySlug(suite.context, tenant.Slug)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant.ID, got.ID)
}

func (suite *TenantRepoTestSuite) TestUpdate_Success() {
	tenant := testTenant(suite.T())
	assert.NoError(suite.T(), tenant.Update("Acme Holdings", models.TenantDisabled, nil, nil))

	suite.mock.ExpectExec(`UPDATE tenants`).
		WithArgs(
			tenant.Name, int(tenant.Status), tenant.LogoURL, tenant.PrimaryColor,
			int(tenant.AuthConfig.PrimaryAuthMethod), tenant.AuthConfig.AllowPhoneAuth, tenant.AuthConfig.AllowEmailAuth,
			tenant.AuthConfig.OtpCodeLength, tenant.AuthConfig.OtpExpiryMinutes, tenant.AuthConfig.SMSProvider,
			tenant.AuthConfig.RequireSMSVerification, tenant.UpdatedAt, tenant.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, tenant)
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestUpdate_MissingTenant() {
	tenant := testTenant(suite.T())

	suite.mock.ExpectExec(`UPDATE tenants`).
		WithArgs(
			tenant.Name, int(tenant.Status), tenant.LogoURL, tenant.PrimaryColor,
			int(tenant.AuthConfig.PrimaryAuthMethod), tenant.AuthConfig.AllowPhoneAuth, tenant.AuthConfig.AllowEmailAuth,
			tenant.AuthConfig.OtpCodeLength, tenant.AuthConfig.OtpExpiryMinutes, tenant.AuthConfig.SMSProvider,
			tenant.AuthConfig.RequireSMSVerification, tenant.UpdatedAt, tenant.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, tenant)
	assert.ErrorIs(suite.T(), err, ErrTenantNotFound)
}

func (suite *TenantRepoTestSuite) TestDelete_Success() {
	tenantID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM tenants WHERE id = \$1`).
		WithArgs(tenantID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, tenantID)
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestList_Success() {
	t1 := testTenant(suite.T())
	t2, err := models.NewTenant("Pasta Palace", models.TenantDisabled, nil, nil)
	assert.NoError(suite.T(), err)

	rows := tenantRows(t1).AddRow(
		t2.ID, t2.Name, t2.Slug, int(t2.Status), t2.LogoURL, t2.PrimaryColor,
		int(t2.AuthConfig.PrimaryAuthMethod), t2.AuthConfig.AllowPhoneAuth, t2.AuthConfig.AllowEmailAuth,
		t2.AuthConfig.OtpCodeLength, t2.AuthConfig.OtpExpiryMinutes, t2.AuthConfig.SMSProvider,
		t2.AuthConfig.RequireSMSVerification, t2.CreatedAt, t2.UpdatedAt,
	)

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants\s+ORDER BY created_at DESC`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	tenants, err := suite.repo.List(suite.context, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tenants, 2)
	assert.Equal(suite.T(), "acme-corp", tenants[0].Slug)
	assert.Equal(suite.T(), "pasta-palace", tenants[1].Slug)
}

func (suite *TenantRepoTestSuite) TestListEnabled_FiltersByStatus() {
	t1 := testTenant(suite.T())

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants\s+WHERE status = \$1`).
		WithArgs(int(models.TenantEnabled)).
		WillReturnRows(tenantRows(t1))

	tenants, err := suite.repo.ListEnabled(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tenants, 1)
	assert.Equal(suite.T(), models.TenantEnabled, tenants[0].Status)
}
