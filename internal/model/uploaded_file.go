package model

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile is the metadata row for a file attached to a tenant's data.
// Upload, validation and storage of the bytes themselves live outside this
// service; only the tenant-scoped record is kept here.
type UploadedFile struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     uint           `json:"tenant_id" gorm:"index;not null"`
	StorageKey   string         `json:"storage_key" gorm:"type:varchar(128);uniqueIndex;not null"`
	FileName     string         `json:"file_name" gorm:"type:varchar(255);not null"`
	ContentType  string         `json:"content_type" gorm:"type:varchar(100)"`
	SizeBytes    int64          `json:"size_bytes"`
	UploadedByID *uint          `json:"uploaded_by_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}
