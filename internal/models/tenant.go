package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors returned by tenant mutation operations. Callers can
// classify failures with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("value out of range")
)

// TenantStatus represents whether a tenant can access the system.
type TenantStatus int

const (
	TenantDisabled TenantStatus = 0
	TenantEnabled  TenantStatus = 1
)

func (s TenantStatus) String() string {
	switch s {
	case TenantDisabled:
		return "disabled"
	case TenantEnabled:
		return "enabled"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// AuthMethod is the primary authentication method for a tenant's users.
// The ordinal values are persisted, so they must stay stable.
type AuthMethod int

const (
	AuthMethodPassword AuthMethod = 0
	AuthMethodPhoneOtp AuthMethod = 1
	AuthMethodEmailOtp AuthMethod = 2
	AuthMethodSocial   AuthMethod = 3
)

func (m AuthMethod) Valid() bool {
	return m >= AuthMethodPassword && m <= AuthMethodSocial
}

func (m AuthMethod) String() string {
	switch m {
	case AuthMethodPassword:
		return "password"
	case AuthMethodPhoneOtp:
		return "phone_otp"
	case AuthMethodEmailOtp:
		return "email_otp"
	case AuthMethodSocial:
		return "social"
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

const (
	maxNameLength         = 200
	maxLogoURLLength      = 500
	maxPrimaryColorLength = 50
	maxSMSProviderLength  = 100

	minOtpCodeLength = 4
	maxOtpCodeLength = 10
)

// Tenant is an isolated customer organization with its own branding and
// authentication policy. Mutation goes through Update and
// UpdateAuthConfiguration so the invariants hold after every operation.
type Tenant struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Slug         string       `json:"slug" db:"slug"`
	Status       TenantStatus `json:"status" db:"status"`
	LogoURL      *string      `json:"logo_url" db:"logo_url"`
	PrimaryColor *string      `json:"primary_color" db:"primary_color"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`

	AuthConfig AuthConfiguration `json:"auth_config"`
}

// AuthConfiguration governs how a tenant's users authenticate.
type AuthConfiguration struct {
	PrimaryAuthMethod      AuthMethod `json:"primary_auth_method" db:"primary_auth_method"`
	AllowPhoneAuth         bool       `json:"allow_phone_auth" db:"allow_phone_auth"`
	AllowEmailAuth         bool       `json:"allow_email_auth" db:"allow_email_auth"`
	OtpCodeLength          int        `json:"otp_code_length" db:"otp_code_length"`
	OtpExpiryMinutes       int        `json:"otp_expiry_minutes" db:"otp_expiry_minutes"`
	SMSProvider            *string    `json:"sms_provider" db:"sms_provider"`
	RequireSMSVerification bool       `json:"require_sms_verification" db:"require_sms_verification"`
}

// DefaultAuthConfiguration returns the configuration applied to new tenants:
// password login, OTP disabled on both channels, 6-digit codes expiring after
// 5 minutes, SMS verification required.
func DefaultAuthConfiguration() AuthConfiguration {
	return AuthConfiguration{
		PrimaryAuthMethod:      AuthMethodPassword,
		AllowPhoneAuth:         false,
		AllowEmailAuth:         false,
		OtpCodeLength:          6,
		OtpExpiryMinutes:       5,
		SMSProvider:            nil,
		RequireSMSVerification: true,
	}
}

// Validate checks the configuration bounds without applying anything.
func (c AuthConfiguration) Validate() error {
	if !c.PrimaryAuthMethod.Valid() {
		return fmt.Errorf("%w: primary_auth_method must be between %d and %d", ErrOutOfRange, int(AuthMethodPassword), int(AuthMethodSocial))
	}
	if c.OtpCodeLength < minOtpCodeLength || c.OtpCodeLength > maxOtpCodeLength {
		return fmt.Errorf("%w: otp_code_length must be between %d and %d", ErrOutOfRange, minOtpCodeLength, maxOtpCodeLength)
	}
	if c.OtpExpiryMinutes <= 0 {
		return fmt.Errorf("%w: otp_expiry_minutes must be greater than 0", ErrOutOfRange)
	}
	if c.SMSProvider != nil && len(*c.SMSProvider) > maxSMSProviderLength {
		return fmt.Errorf("%w: sms_provider cannot exceed %d characters", ErrOutOfRange, maxSMSProviderLength)
	}
	return nil
}

// NewTenant constructs a tenant with a derived slug, fresh timestamps and the
// default authentication configuration. The slug is frozen at creation so
// externally referenced URLs stay stable across renames.
func NewTenant(name string, status TenantStatus, logoURL, primaryColor *string) (*Tenant, error) {
	if err := validateTenantFields(name, logoURL, primaryColor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Tenant{
		ID:           uuid.New(),
		Name:         name,
		Slug:         SlugFromName(name),
		Status:       status,
		LogoURL:      logoURL,
		PrimaryColor: primaryColor,
		CreatedAt:    now,
		UpdatedAt:    now,
		AuthConfig:   DefaultAuthConfiguration(),
	}, nil
}

// SlugFromName derives the URL-safe identifier for a tenant name:
// lowercase with spaces replaced by hyphens.
func SlugFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// Update replaces the tenant's basic details. The slug is deliberately left
// untouched. Nothing is mutated when validation fails.
func (t *Tenant) Update(name string, status TenantStatus, logoURL, primaryColor *string) error {
	if err := validateTenantFields(name, logoURL, primaryColor); err != nil {
		return err
	}

	t.Name = name
	t.Status = status
	t.LogoURL = logoURL
	t.PrimaryColor = primaryColor
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateAuthConfiguration replaces the full authentication configuration.
// Either all seven fields are replaced or, on a validation failure, none are.
func (t *Tenant) UpdateAuthConfiguration(cfg AuthConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t.AuthConfig = cfg
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func validateTenantFields(name string, logoURL, primaryColor *string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidArgument)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name cannot exceed %d characters", ErrInvalidArgument, maxNameLength)
	}
	if logoURL != nil && len(*logoURL) > maxLogoURLLength {
		return fmt.Errorf("%w: logo_url cannot exceed %d characters", ErrInvalidArgument, maxLogoURLLength)
	}
	if primaryColor != nil && len(*primaryColor) > maxPrimaryColorLength {
		return fmt.Errorf("%w: primary_color cannot exceed %d characters", ErrInvalidArgument, maxPrimaryColorLength)
	}
	return nil
}
