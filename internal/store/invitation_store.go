package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// InvitationStore reads and writes tenant invitations.
type InvitationStore interface {
	// Create persists an invitation under the scope's tenant. The tenant id
	// comes from the scope, never from the caller-provided row.
	Create(ctx context.Context, scope tenant.Scope, inv *model.Invitation) error
	ListPending(ctx context.Context, scope tenant.Scope) ([]model.Invitation, error)
}

type invitationStore struct {
	db *gorm.DB
}

// NewInvitationStore returns a GORM-backed InvitationStore.
func NewInvitationStore(db *gorm.DB) InvitationStore {
	return &invitationStore{db: db}
}

func (s *invitationStore) Create(ctx context.Context, scope tenant.Scope, inv *model.Invitation) error {
	tenantID, ok := scope.TenantID()
	if !ok {
		// Writes require a single concrete tenant; unset and cross-tenant
		// scopes cannot create rows.
		return ErrNoTenantScope
	}
	inv.TenantID = tenantID

	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s *invitationStore) ListPending(ctx context.Context, scope tenant.Scope) ([]model.Invitation, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var invs []model.Invitation
	err := s.db.WithContext(ctx).
		Scopes(scope.Filter("tenant_id")).
		Where("accepted_at IS NULL").
		Where("expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}
