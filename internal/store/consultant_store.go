package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// ConsultantStore reads and updates consultant records. Consultants are
// global, so nothing here takes a tenant scope.
type ConsultantStore interface {
	FindActiveByEmail(ctx context.Context, email string) (*model.Consultant, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Consultant, error)
	StampLastLogin(ctx context.Context, id uint, at time.Time) error
}

type consultantStore struct {
	db *gorm.DB
}

// NewConsultantStore returns a GORM-backed ConsultantStore.
func NewConsultantStore(db *gorm.DB) ConsultantStore {
	return &consultantStore{db: db}
}

func (s *consultantStore) FindActiveByEmail(ctx context.Context, email string) (*model.Consultant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var c model.Consultant
	err := s.db.WithContext(ctx).
		Where("email = ? AND active = ?", email, true).
		First(&c).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

func (s *consultantStore) FindActiveByID(ctx context.Context, id uint) (*model.Consultant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var c model.Consultant
	err := s.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&c).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

func (s *consultantStore) StampLastLogin(ctx context.Context, id uint, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	return s.db.WithContext(ctx).
		Model(&model.Consultant{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
