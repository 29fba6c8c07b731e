package model

import (
	"time"

	"gorm.io/gorm"
)

// RequestType is a tenant-defined form template employees submit against.
type RequestType struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}

// RequestTypeVersion is one immutable revision of a request type's form
// schema. Versions are scoped to a tenant through their request type, not by
// a tenant column of their own.
type RequestTypeVersion struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	RequestTypeID uint      `json:"request_type_id" gorm:"index;not null"`
	Version       int       `json:"version" gorm:"not null"`
	Schema        string    `json:"schema" gorm:"type:jsonb"`
	CreatedAt     time.Time `json:"created_at"`

	RequestType RequestType `json:"-" gorm:"foreignKey:RequestTypeID"`
}
