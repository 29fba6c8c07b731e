package tenant

import (
	"fmt"

	"gorm.io/gorm"
)

type scopeKind int

const (
	scopeUnset scopeKind = iota
	scopeTenant
	scopeCross
)

// Scope says which tenant's rows a query may touch. It is a tagged value
// with three states:
//
//   - the zero value, Unset: no tenant has been resolved. Queries match
//     nothing. A code path that forgets to resolve a tenant is locked out,
//     never granted cross-tenant reach.
//   - ScopedTo(id): rows of exactly one tenant.
//   - CrossTenant(): no tenant restriction. Only consultant code constructs
//     this, after checking the consultant's assignment registry.
//
// A Scope is request-local; it is never cached or shared across requests.
type Scope struct {
	kind     scopeKind
	tenantID uint
}

// ScopedTo restricts queries to the given tenant's rows.
func ScopedTo(tenantID uint) Scope {
	return Scope{kind: scopeTenant, tenantID: tenantID}
}

// CrossTenant disables the tenant restriction. Callers must have verified
// authorization independently before constructing one.
func CrossTenant() Scope {
	return Scope{kind: scopeCross}
}

// IsSet reports whether the scope left its zero state.
func (s Scope) IsSet() bool {
	return s.kind != scopeUnset
}

// IsCrossTenant reports whether the scope bypasses tenant filtering.
func (s Scope) IsCrossTenant() bool {
	return s.kind == scopeCross
}

// TenantID returns the scoped tenant id, and false unless the scope is
// restricted to a single tenant.
func (s Scope) TenantID() (uint, bool) {
	if s.kind != scopeTenant {
		return 0, false
	}
	return s.tenantID, true
}

// Filter returns a gorm scope applying s to the given tenant-id column.
// Column is qualified by the caller when the query joins ("request_types.tenant_id").
func (s Scope) Filter(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.kind {
		case scopeTenant:
			return db.Where(fmt.Sprintf("%s = ?", column), s.tenantID)
		case scopeCross:
			return db
		default:
			// Unset fails closed: the predicate can never match.
			return db.Where("1 = 0")
		}
	}
}

func (s Scope) String() string {
	switch s.kind {
	case scopeTenant:
		return fmt.Sprintf("tenant(%d)", s.tenantID)
	case scopeCross:
		return "cross-tenant"
	default:
		return "unset"
	}
}
