package model

import (
	"time"

	"gorm.io/gorm"
)

// TenantUser represents a user account belonging to exactly one tenant.
// Email is unique within a tenant, not globally.
type TenantUser struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    uint           `json:"tenant_id" gorm:"uniqueIndex:idx_tenant_users_tenant_email;not null"`
	Email       string         `json:"email" gorm:"type:varchar(255);uniqueIndex:idx_tenant_users_tenant_email;not null"`
	Password    string         `json:"-" gorm:"type:varchar(255);not null"`
	Name        string         `json:"name" gorm:"type:varchar(100)"`
	Role        Role           `json:"role" gorm:"type:varchar(20);not null;default:'member'"`
	Active      bool           `json:"active" gorm:"default:true"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}
