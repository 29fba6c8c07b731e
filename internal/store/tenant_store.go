package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// TenantUsage aggregates per-tenant counts for consultant overviews.
type TenantUsage struct {
	Users            int64 `json:"users"`
	RequestTypes     int64 `json:"request_types"`
	PendingResponses int64 `json:"pending_responses"`
	UploadedFiles    int64 `json:"uploaded_files"`
}

// TenantStore reads tenants and computes tenant usage. Tenants themselves
// are not tenant-owned rows, so lookups here take no scope.
type TenantStore interface {
	FindActiveBySlug(ctx context.Context, slug string) (*model.Tenant, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Tenant, error)
	// UsageFor counts the tenant-owned rows visible under the given scope.
	// Consultant overviews call this once per assigned tenant with
	// ScopedTo(thatTenant), never with a cross-tenant scope.
	UsageFor(ctx context.Context, scope tenant.Scope) (*TenantUsage, error)
}

type tenantStore struct {
	db *gorm.DB
}

// NewTenantStore returns a GORM-backed TenantStore.
func NewTenantStore(db *gorm.DB) TenantStore {
	return &tenantStore{db: db}
}

func (s *tenantStore) FindActiveBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var t model.Tenant
	err := s.db.WithContext(ctx).
		Where("slug = ? AND active = ?", slug, true).
		First(&t).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &t, nil
}

func (s *tenantStore) FindActiveByID(ctx context.Context, id uint) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var t model.Tenant
	err := s.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&t).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &t, nil
}

func (s *tenantStore) UsageFor(ctx context.Context, scope tenant.Scope) (*TenantUsage, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	db := s.db.WithContext(ctx)
	usage := &TenantUsage{}

	if err := db.Model(&model.TenantUser{}).
		Scopes(scope.Filter("tenant_id")).
		Where("active = ?", true).
		Count(&usage.Users).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.RequestType{}).
		Scopes(scope.Filter("tenant_id")).
		Where("active = ?", true).
		Count(&usage.RequestTypes).Error; err != nil {
		return nil, err
	}

	// Form responses have no tenant column; they are scoped through their
	// version's request type.
	if err := db.Model(&model.FormResponse{}).
		Joins("JOIN request_type_versions ON request_type_versions.id = form_responses.request_type_version_id").
		Joins("JOIN request_types ON request_types.id = request_type_versions.request_type_id").
		Scopes(scope.Filter("request_types.tenant_id")).
		Where("form_responses.status = ?", model.ResponseStatusPending).
		Count(&usage.PendingResponses).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.UploadedFile{}).
		Scopes(scope.Filter("tenant_id")).
		Count(&usage.UploadedFiles).Error; err != nil {
		return nil, err
	}

	return usage, nil
}
