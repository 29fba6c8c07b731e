// Package store is the persistence boundary. Every tenant-owned query takes
// a tenant.Scope and applies it through Scope.Filter, so callers cannot
// accidentally read another tenant's rows. Lookups return (nil, nil) when no
// row matches; only storage failures surface as errors.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrConflict is returned when a guarded update matched no rows, e.g. a
// refresh-token rotation that lost a race to a concurrent redeem.
var ErrConflict = errors.New("store: conflict")

// ErrNoTenantScope is returned when a write that needs a single concrete
// tenant is attempted under an unset or cross-tenant scope.
var ErrNoTenantScope = errors.New("store: no tenant scope")

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
