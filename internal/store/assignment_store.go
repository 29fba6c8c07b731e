package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// AssignmentStore reads consultant-tenant assignments. Assignment creation
// and revocation belong to platform administration; the auth core only
// consumes them.
type AssignmentStore interface {
	// ActiveForConsultant returns active assignments whose tenant is also
	// active, with Tenant preloaded. Inactive rows on either side are
	// silently excluded.
	ActiveForConsultant(ctx context.Context, consultantID uint) ([]model.ConsultantTenantAssignment, error)
	// Find returns the active assignment for a (consultant, tenant) pair,
	// or nil when no usable assignment exists.
	Find(ctx context.Context, consultantID, tenantID uint) (*model.ConsultantTenantAssignment, error)
}

type assignmentStore struct {
	db *gorm.DB
}

// NewAssignmentStore returns a GORM-backed AssignmentStore.
func NewAssignmentStore(db *gorm.DB) AssignmentStore {
	return &assignmentStore{db: db}
}

func (s *assignmentStore) ActiveForConsultant(ctx context.Context, consultantID uint) ([]model.ConsultantTenantAssignment, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var assignments []model.ConsultantTenantAssignment
	err := s.db.WithContext(ctx).
		Joins("JOIN tenants ON tenants.id = consultant_tenant_assignments.tenant_id").
		Where("consultant_tenant_assignments.consultant_id = ?", consultantID).
		Where("consultant_tenant_assignments.active = ?", true).
		Where("tenants.active = ?", true).
		Where("tenants.deleted_at IS NULL").
		Preload("Tenant").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *assignmentStore) Find(ctx context.Context, consultantID, tenantID uint) (*model.ConsultantTenantAssignment, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var a model.ConsultantTenantAssignment
	err := s.db.WithContext(ctx).
		Joins("JOIN tenants ON tenants.id = consultant_tenant_assignments.tenant_id").
		Where("consultant_tenant_assignments.consultant_id = ?", consultantID).
		Where("consultant_tenant_assignments.tenant_id = ?", tenantID).
		Where("consultant_tenant_assignments.active = ?", true).
		Where("tenants.active = ?", true).
		Where("tenants.deleted_at IS NULL").
		First(&a).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &a, nil
}
