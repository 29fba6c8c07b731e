package model

import (
	"time"

	"gorm.io/gorm"
)

// ResponseStatus is the review state of a submitted form response.
type ResponseStatus string

const (
	ResponseStatusPending   ResponseStatus = "pending"
	ResponseStatusCompleted ResponseStatus = "completed"
)

// FormResponse is a submission against one request-type version. It carries
// no tenant column; it belongs to a tenant through its version's request
// type and is scoped by joining that chain.
type FormResponse struct {
	ID                   uint           `json:"id" gorm:"primaryKey"`
	RequestTypeVersionID uint           `json:"request_type_version_id" gorm:"index;not null"`
	SubmittedByID        *uint          `json:"submitted_by_id,omitempty" gorm:"index"`
	Status               ResponseStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Answers              string         `json:"answers" gorm:"type:jsonb"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"-" gorm:"index"`

	RequestTypeVersion RequestTypeVersion `json:"-" gorm:"foreignKey:RequestTypeVersionID"`
	SubmittedBy        *TenantUser        `json:"-" gorm:"foreignKey:SubmittedByID"`
}
