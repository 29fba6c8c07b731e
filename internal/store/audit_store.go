package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// AuditStore appends and lists tenant-scoped audit events.
type AuditStore interface {
	Append(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, scope tenant.Scope, limit int) ([]model.AuditLog, error)
}

type auditStore struct {
	db *gorm.DB
}

// NewAuditStore returns a GORM-backed AuditStore.
func NewAuditStore(db *gorm.DB) AuditStore {
	return &auditStore{db: db}
}

func (s *auditStore) Append(ctx context.Context, entry *model.AuditLog) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *auditStore) List(ctx context.Context, scope tenant.Scope, limit int) ([]model.AuditLog, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var entries []model.AuditLog
	err := s.db.WithContext(ctx).
		Scopes(scope.Filter("tenant_id")).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
