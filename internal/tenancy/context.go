package tenancy

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const tenantContextKey contextKey = "tenant_context"

// TenantContext carries the acting tenant and user identity for a single
// request. Data-access code uses TenantID/UserID to scope queries; both are
// nil for super-users so no tenant filter is applied.
type TenantContext struct {
	TenantID    *uuid.UUID `json:"tenant_id"`
	UserID      *uuid.UUID `json:"user_id"`
	IsSuperUser bool       `json:"is_super_user"`
}

// WithContext returns a child context carrying the resolved TenantContext.
func WithContext(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey, tc)
}

// FromContext extracts the TenantContext from the request context.
// The zero value (no tenant, no user, not super-user) is returned when the
// request never went through resolution.
func FromContext(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(tenantContextKey).(TenantContext)
	return tc, ok
}
