package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// UserStore reads and updates tenant-user records.
type UserStore interface {
	// FindActiveByEmail looks up a user within the given tenant scope.
	FindActiveByEmail(ctx context.Context, scope tenant.Scope, email string) (*model.TenantUser, error)
	// FindActiveByID is a primary-key lookup used to resolve a refresh
	// token's owner. The ledger row, not a tenant, is the authority there,
	// so no scope applies.
	FindActiveByID(ctx context.Context, id uint) (*model.TenantUser, error)
	// List returns the active users visible under the given scope.
	List(ctx context.Context, scope tenant.Scope) ([]model.TenantUser, error)
	StampLastLogin(ctx context.Context, id uint, at time.Time) error
}

type userStore struct {
	db *gorm.DB
}

// NewUserStore returns a GORM-backed UserStore.
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) FindActiveByEmail(ctx context.Context, scope tenant.Scope, email string) (*model.TenantUser, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var u model.TenantUser
	err := s.db.WithContext(ctx).
		Scopes(scope.Filter("tenant_id")).
		Where("email = ? AND active = ?", email, true).
		First(&u).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &u, nil
}

func (s *userStore) FindActiveByID(ctx context.Context, id uint) (*model.TenantUser, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var u model.TenantUser
	err := s.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&u).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &u, nil
}

func (s *userStore) List(ctx context.Context, scope tenant.Scope) ([]model.TenantUser, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var users []model.TenantUser
	err := s.db.WithContext(ctx).
		Scopes(scope.Filter("tenant_id")).
		Where("active = ?", true).
		Order("email").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) StampLastLogin(ctx context.Context, id uint, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	return s.db.WithContext(ctx).
		Model(&model.TenantUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
