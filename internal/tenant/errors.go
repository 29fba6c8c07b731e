// Package tenant holds the tenant-identification protocol and the scoping
// mechanism that confines data access to a single tenant. All planes of the
// service go through the Scope type here so isolation rules are applied
// consistently regardless of which store runs the query.
package tenant

import "errors"

// Sentinel errors for tenant resolution. Handlers map these to distinct
// client statuses (400 for required, 404 for not found).
var (
	// ErrTenantRequired is returned when a non-exempt request carries no
	// tenant header and its host yields no subdomain slug.
	ErrTenantRequired = errors.New("tenant: tenant required")

	// ErrTenantNotFound is returned when a tenant was identified but no
	// matching active tenant exists.
	ErrTenantNotFound = errors.New("tenant: tenant not found")
)
