package model

import (
	"time"

	"gorm.io/gorm"
)

// OwnerKind discriminates which principal kind a refresh token belongs to.
// The discriminator is load-bearing: ledger lookups always filter by kind so
// a consultant token can never satisfy a tenant-user lookup or vice versa.
type OwnerKind string

const (
	OwnerKindUser       OwnerKind = "user"
	OwnerKindConsultant OwnerKind = "consultant"
)

// Owner is the tagged owner of a refresh token: exactly one principal, of
// exactly one kind.
type Owner struct {
	Kind OwnerKind
	ID   uint
}

// UserOwner tags a tenant-user id as a token owner.
func UserOwner(id uint) Owner {
	return Owner{Kind: OwnerKindUser, ID: id}
}

// ConsultantOwner tags a consultant id as a token owner.
func ConsultantOwner(id uint) Owner {
	return Owner{Kind: OwnerKindConsultant, ID: id}
}

// RefreshToken is one outstanding or historical refresh credential. Rotated
// and logged-out tokens are revoked in place, never deleted, so the ledger
// doubles as an audit trail.
type RefreshToken struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	Token             string     `json:"-" gorm:"type:varchar(128);uniqueIndex;not null"`
	OwnerUserID       *uint      `json:"owner_user_id,omitempty" gorm:"index"`
	OwnerConsultantID *uint      `json:"owner_consultant_id,omitempty" gorm:"index"`
	ExpiresAt         time.Time  `json:"expires_at" gorm:"not null"`
	RevokedAt         *time.Time `json:"revoked_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewRefreshToken mints an active token bound to owner, valid for ttl.
func NewRefreshToken(owner Owner, ttl time.Duration) *RefreshToken {
	t := &RefreshToken{
		Token:     SecureToken(),
		ExpiresAt: time.Now().Add(ttl),
	}
	t.SetOwner(owner)
	return t
}

// BeforeCreate fills the opaque token value when the caller did not.
func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.Token == "" {
		t.Token = SecureToken()
	}
	return nil
}

// SetOwner binds the token to a single principal, clearing the other column.
func (t *RefreshToken) SetOwner(owner Owner) {
	t.OwnerUserID = nil
	t.OwnerConsultantID = nil
	id := owner.ID
	switch owner.Kind {
	case OwnerKindUser:
		t.OwnerUserID = &id
	case OwnerKindConsultant:
		t.OwnerConsultantID = &id
	}
}

// Owner returns the tagged owner. ok is false when neither column is set,
// which only happens on a corrupt row.
func (t *RefreshToken) Owner() (Owner, bool) {
	if t.OwnerUserID != nil {
		return UserOwner(*t.OwnerUserID), true
	}
	if t.OwnerConsultantID != nil {
		return ConsultantOwner(*t.OwnerConsultantID), true
	}
	return Owner{}, false
}

// IsExpired reports whether the token's lifetime has elapsed.
func (t *RefreshToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// IsRevoked reports whether the token was rotated out or logged out.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token may still be redeemed.
func (t *RefreshToken) IsActive() bool {
	return !t.IsRevoked() && !t.IsExpired()
}
