package model

import (
	"time"

	"gorm.io/gorm"
)

// Capability is one of the four independent permissions a consultant may hold
// on an assigned tenant. These are an unordered set, not a role ladder.
type Capability string

const (
	CapManageRequestTypes Capability = "manage_request_types"
	CapManageSettings     Capability = "manage_settings"
	CapManageBranding     Capability = "manage_branding"
	CapViewResponses      Capability = "view_responses"
)

// Capabilities is the capability set granted by one assignment.
type Capabilities struct {
	ManageRequestTypes bool `json:"manage_request_types"`
	ManageSettings     bool `json:"manage_settings"`
	ManageBranding     bool `json:"manage_branding"`
	ViewResponses      bool `json:"view_responses"`
}

// Has reports whether the set includes the given capability.
func (c Capabilities) Has(cap Capability) bool {
	switch cap {
	case CapManageRequestTypes:
		return c.ManageRequestTypes
	case CapManageSettings:
		return c.ManageSettings
	case CapManageBranding:
		return c.ManageBranding
	case CapViewResponses:
		return c.ViewResponses
	}
	return false
}

// ConsultantTenantAssignment joins a consultant to one tenant they may work
// on, carrying the capability grants for that tenant. Unique per
// (consultant, tenant) pair. Created and revoked by platform administration;
// the auth core only reads it.
type ConsultantTenantAssignment struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	ConsultantID uint `json:"consultant_id" gorm:"uniqueIndex:idx_assignments_consultant_tenant;not null"`
	TenantID     uint `json:"tenant_id" gorm:"uniqueIndex:idx_assignments_consultant_tenant;not null"`
	Active       bool `json:"active" gorm:"default:true"`

	ManageRequestTypes bool `json:"manage_request_types" gorm:"default:false"`
	ManageSettings     bool `json:"manage_settings" gorm:"default:false"`
	ManageBranding     bool `json:"manage_branding" gorm:"default:false"`
	ViewResponses      bool `json:"view_responses" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Consultant Consultant `json:"-" gorm:"foreignKey:ConsultantID"`
	Tenant     Tenant     `json:"-" gorm:"foreignKey:TenantID"`
}

// Capabilities returns the grants on this assignment as a capability set.
func (a *ConsultantTenantAssignment) Capabilities() Capabilities {
	return Capabilities{
		ManageRequestTypes: a.ManageRequestTypes,
		ManageSettings:     a.ManageSettings,
		ManageBranding:     a.ManageBranding,
		ViewResponses:      a.ViewResponses,
	}
}
