package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents a customer organization and is the unit of data
// partitioning for every tenant-owned record in the system.
type Tenant struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Slug             string         `json:"slug" gorm:"type:varchar(64);uniqueIndex;not null"`
	Name             string         `json:"name" gorm:"type:varchar(100);not null"`
	SubscriptionTier string         `json:"subscription_tier" gorm:"type:varchar(50);default:'standard'"`
	Active           bool           `json:"active" gorm:"default:true"`
	Settings         string         `json:"settings,omitempty" gorm:"type:jsonb"`
	Branding         string         `json:"branding,omitempty" gorm:"type:jsonb"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
