package repositories

import (
	"context"
	"errors"

	"menumart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrTenantNotFound = errors.New("tenant not found")

// DBTX is the querier surface shared by *pgxpool.Pool and pgxmock, so the
// repository can be exercised without a live database.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	ListEnabled(ctx context.Context) ([]*models.Tenant, error)
}

type tenantRepo struct {
	db DBTX
}

func NewTenantRepo(db DBTX) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, name, slug, status, logo_url, primary_color,
		primary_auth_method, allow_phone_auth, allow_email_auth,
		otp_code_length, otp_expiry_minutes, sms_provider, require_sms_verification,
		created_at, updated_at`

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, status, logo_url, primary_color,
			primary_auth_method, allow_phone_auth, allow_email_auth,
			otp_code_length, otp_expiry_minutes, sms_provider, require_sms_verification,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		tenant.ID, tenant.Name, tenant.Slug, int(tenant.Status), tenant.LogoURL, tenant.PrimaryColor,
		int(tenant.AuthConfig.PrimaryAuthMethod), tenant.AuthConfig.AllowPhoneAuth, tenant.AuthConfig.AllowEmailAuth,
		tenant.AuthConfig.OtpCodeLength, tenant.AuthConfig.OtpExpiryMinutes, tenant.AuthConfig.SMSProvider,
		tenant.AuthConfig.RequireSMSVerification, tenant.CreatedAt, tenant.UpdatedAt,
	)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE id = $1
	`
	return r.scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE slug = $1
	`
	return r.scanTenant(r.db.QueryRow(ctx, query, slug))
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	// Slug is intentionally absent: it is frozen at creation.
	query := `
		UPDATE tenants
		SET name = $1, status = $2, logo_url = $3, primary_color = $4,
			primary_auth_method = $5, allow_phone_auth = $6, allow_email_auth = $7,
			otp_code_length = $8, otp_expiry_minutes = $9, sms_provider = $10,
			require_sms_verification = $11, updated_at = $12
		WHERE id = $13
	`
	tag, err := r.db.Exec(ctx, query,
		tenant.Name, int(tenant.Status), tenant.LogoURL, tenant.PrimaryColor,
		int(tenant.AuthConfig.PrimaryAuthMethod), tenant.AuthConfig.AllowPhoneAuth, tenant.AuthConfig.AllowEmailAuth,
		tenant.AuthConfig.OtpCodeLength, tenant.AuthConfig.OtpExpiryMinutes, tenant.AuthConfig.SMSProvider,
		tenant.AuthConfig.RequireSMSVerification, tenant.UpdatedAt, tenant.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (r *tenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tenants WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectTenants(rows)
}

func (r *tenantRepo) ListEnabled(ctx context.Context) ([]*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE status = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, int(models.TenantEnabled))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectTenants(rows)
}

func (r *tenantRepo) collectTenants(rows pgx.Rows) ([]*models.Tenant, error) {
	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := r.scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) scanTenant(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	var status, authMethod int
	err := row.Scan(
		&tenant.ID, &tenant.Name, &tenant.Slug, &status, &tenant.LogoURL, &tenant.PrimaryColor,
		&authMethod, &tenant.AuthConfig.AllowPhoneAuth, &tenant.AuthConfig.AllowEmailAuth,
		&tenant.AuthConfig.OtpCodeLength, &tenant.AuthConfig.OtpExpiryMinutes, &tenant.AuthConfig.SMSProvider,
		&tenant.AuthConfig.RequireSMSVerification, &tenant.CreatedAt, &tenant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	tenant.Status = models.TenantStatus(status)
	tenant.AuthConfig.PrimaryAuthMethod = models.AuthMethod(authMethod)
	return tenant, nil
}
