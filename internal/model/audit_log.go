package model

import "time"

// AuditLog records a security-relevant event against one tenant. Consultant
// actions that touch a tenant are recorded under that tenant, with the
// consultant as actor. Rows are append-only.
type AuditLog struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	TenantID          uint      `json:"tenant_id" gorm:"index;not null"`
	ActorUserID       *uint     `json:"actor_user_id,omitempty"`
	ActorConsultantID *uint     `json:"actor_consultant_id,omitempty"`
	Action            string    `json:"action" gorm:"type:varchar(64);not null"`
	Detail            string    `json:"detail,omitempty" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
}
