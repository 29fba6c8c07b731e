package model

import (
	"time"

	"gorm.io/gorm"
)

// Invitation is a pending offer for someone to join a tenant with a given
// role. Tenant-owned.
type Invitation struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    uint           `json:"tenant_id" gorm:"index;not null"`
	Email       string         `json:"email" gorm:"type:varchar(255);not null"`
	Role        Role           `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	InvitedByID uint           `json:"invited_by_id" gorm:"not null"`
	AcceptedAt  *time.Time     `json:"accepted_at,omitempty"`
	ExpiresAt   time.Time      `json:"expires_at" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant    Tenant     `json:"-" gorm:"foreignKey:TenantID"`
	InvitedBy TenantUser `json:"-" gorm:"foreignKey:InvitedByID"`
}
