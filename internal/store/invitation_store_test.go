package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
)

func TestInvitationCreateRequiresConcreteTenant(t *testing.T) {
	// The scope check precedes any database access, so no DB is needed.
	s := NewInvitationStore(nil)

	inv := &model.Invitation{
		Email:     "new@acme.test",
		Role:      model.RoleMember,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	err := s.Create(context.Background(), tenant.Scope{}, inv)
	assert.ErrorIs(t, err, ErrNoTenantScope)

	err = s.Create(context.Background(), tenant.CrossTenant(), inv)
	assert.ErrorIs(t, err, ErrNoTenantScope)
}
