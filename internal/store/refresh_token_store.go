package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// RefreshTokenStore is the refresh-token ledger. Tokens are revoked in
// place, never deleted, so old rows remain for audit. The owner-kind
// discriminator is applied on every lookup: a consultant's token can never
// be found through a tenant-user lookup, and vice versa.
type RefreshTokenStore interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	// FindActive returns the unrevoked, unexpired token with the given
	// value owned by the given principal kind, or nil.
	FindActive(ctx context.Context, token string, kind model.OwnerKind) (*model.RefreshToken, error)
	// Revoke marks the token revoked. Revoking an unknown or already
	// revoked token is a no-op, so logout is idempotent.
	Revoke(ctx context.Context, token string, kind model.OwnerKind) error
	// Rotate revokes the old token and persists its replacement in one
	// transaction. When the old token was already revoked by a concurrent
	// redeem, Rotate returns ErrConflict and persists nothing.
	Rotate(ctx context.Context, old *model.RefreshToken, next *model.RefreshToken) error
}

type refreshTokenStore struct {
	db *gorm.DB
}

// NewRefreshTokenStore returns a GORM-backed RefreshTokenStore.
func NewRefreshTokenStore(db *gorm.DB) RefreshTokenStore {
	return &refreshTokenStore{db: db}
}

func ownerColumn(kind model.OwnerKind) string {
	if kind == model.OwnerKindConsultant {
		return "owner_consultant_id"
	}
	return "owner_user_id"
}

func (s *refreshTokenStore) Create(ctx context.Context, token *model.RefreshToken) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return s.db.WithContext(ctx).Create(token).Error
}

func (s *refreshTokenStore) FindActive(ctx context.Context, token string, kind model.OwnerKind) (*model.RefreshToken, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var t model.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token = ?", token).
		Where(ownerColumn(kind) + " IS NOT NULL").
		Where("revoked_at IS NULL").
		Where("expires_at > ?", time.Now()).
		First(&t).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &t, nil
}

func (s *refreshTokenStore) Revoke(ctx context.Context, token string, kind model.OwnerKind) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	return s.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("token = ?", token).
		Where(ownerColumn(kind) + " IS NOT NULL").
		Where("revoked_at IS NULL").
		Update("revoked_at", time.Now()).Error
}

func (s *refreshTokenStore) Rotate(ctx context.Context, old *model.RefreshToken, next *model.RefreshToken) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The revoked_at guard makes rotation one-time: of two concurrent
		// redeems of the same token, exactly one update matches.
		res := tx.Model(&model.RefreshToken{}).
			Where("id = ?", old.ID).
			Where("revoked_at IS NULL").
			Update("revoked_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return tx.Create(next).Error
	})
}
