package tenancy

import (
	"github.com/google/uuid"
)

// Principal is the authenticated identity handed in by the request pipeline.
// Implementations classify the claims they carry; the resolver never inspects
// raw tokens.
type Principal interface {
	// IsSuperUser reports whether the principal carries the super-user role.
	IsSuperUser() bool
	// TenantClaim returns the raw tenant-identifier claim, if present.
	TenantClaim() (string, bool)
	// SubjectClaim returns the raw subject-identifier claim, if present.
	SubjectClaim() (string, bool)
}

// Resolve derives the TenantContext for a request from its principal.
//
// Resolution is total: it never fails. An absent principal yields the zero
// context, a super-user yields nil tenant/user IDs regardless of any claims
// present (super-users must not be scoped to a single tenant's data), and a
// missing or malformed claim degrades to a nil ID rather than an error.
// Callers that require a tenant must treat a nil TenantID as "no access".
func Resolve(p Principal) TenantContext {
	if p == nil {
		return TenantContext{}
	}

	if p.IsSuperUser() {
		return TenantContext{IsSuperUser: true}
	}

	var tc TenantContext
	if raw, ok := p.TenantClaim(); ok {
		tc.TenantID = parseID(raw)
	}
	if raw, ok := p.SubjectClaim(); ok {
		tc.UserID = parseID(raw)
	}

	return tc
}

func parseID(raw string) *uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
