package model

import (
	"time"

	"gorm.io/gorm"
)

// Consultant is a cross-tenant principal. Consultants are not owned by any
// tenant; their reach is defined by ConsultantTenantAssignment rows.
type Consultant struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Email       string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"type:varchar(255);not null"`
	Name        string         `json:"name" gorm:"type:varchar(100)"`
	Active      bool           `json:"active" gorm:"default:true"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
