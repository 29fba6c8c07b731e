package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
)

type registryFixture struct {
	registry    *Registry
	assignments *mockAssignmentStore
	tenants     *mockTenantStore
	audit       *mockAuditStore
}

func newRegistryFixture() *registryFixture {
	assignments := &mockAssignmentStore{}
	tenants := newMockTenantStore()
	audit := &mockAuditStore{}
	return &registryFixture{
		registry:    NewRegistry(assignments, tenants, audit, zap.NewNop()),
		assignments: assignments,
		tenants:     tenants,
		audit:       audit,
	}
}

func (f *registryFixture) seedAssignment(consultantID uint, tn *model.Tenant, active bool, caps model.Capabilities) {
	f.assignments.assignments = append(f.assignments.assignments, model.ConsultantTenantAssignment{
		ID:                 uint(len(f.assignments.assignments) + 1),
		ConsultantID:       consultantID,
		TenantID:           tn.ID,
		Active:             active,
		ManageRequestTypes: caps.ManageRequestTypes,
		ManageSettings:     caps.ManageSettings,
		ManageBranding:     caps.ManageBranding,
		ViewResponses:      caps.ViewResponses,
		Tenant:             *tn,
	})
}

func TestGrant(t *testing.T) {
	f := newRegistryFixture()
	acme := f.tenants.add(&model.Tenant{ID: 10, Slug: "acme", Name: "Acme Inc", Active: true})
	dormant := f.tenants.add(&model.Tenant{ID: 11, Slug: "dormant", Name: "Dormant Co", Active: false})
	caps := model.Capabilities{ManageSettings: true, ViewResponses: true}
	f.seedAssignment(1, acme, true, caps)

	t.Run("assigned tenant", func(t *testing.T) {
		tn, got, err := f.registry.Grant(context.Background(), 1, "acme")
		require.NoError(t, err)
		assert.Equal(t, uint(10), tn.ID)
		assert.Equal(t, caps, got)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, _, err := f.registry.Grant(context.Background(), 1, "nowhere")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("inactive tenant", func(t *testing.T) {
		_, _, err := f.registry.Grant(context.Background(), 1, dormant.Slug)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("unassigned consultant", func(t *testing.T) {
		_, _, err := f.registry.Grant(context.Background(), 2, "acme")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGrantInactiveAssignment(t *testing.T) {
	f := newRegistryFixture()
	acme := f.tenants.add(&model.Tenant{ID: 10, Slug: "acme", Name: "Acme Inc", Active: true})
	f.seedAssignment(1, acme, false, model.Capabilities{ViewResponses: true})

	_, _, err := f.registry.Grant(context.Background(), 1, "acme")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestTenantOverview(t *testing.T) {
	f := newRegistryFixture()
	acme := f.tenants.add(&model.Tenant{ID: 10, Slug: "acme", Name: "Acme Inc", Active: true})
	f.tenants.usage[10] = &store.TenantUsage{Users: 4, RequestTypes: 2, PendingResponses: 7, UploadedFiles: 3}
	f.seedAssignment(1, acme, true, model.Capabilities{ViewResponses: true})

	overview, err := f.registry.TenantOverview(context.Background(), 1, "acme")
	require.NoError(t, err)

	assert.Equal(t, "acme", overview.Slug)
	assert.Equal(t, int64(4), overview.Usage.Users)
	assert.Equal(t, int64(7), overview.Usage.PendingResponses)

	// Usage counting runs under that tenant's scope, never cross-tenant.
	require.Len(t, f.tenants.usageScopes, 1)
	id, ok := f.tenants.usageScopes[0].TenantID()
	assert.True(t, ok)
	assert.Equal(t, uint(10), id)
	assert.False(t, f.tenants.usageScopes[0].IsCrossTenant())

	// Each overview read lands in the tenant's audit trail.
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "consultant.tenant_overview", f.audit.entries[0].Action)
	assert.Equal(t, uint(10), f.audit.entries[0].TenantID)
	require.NotNil(t, f.audit.entries[0].ActorConsultantID)
	assert.Equal(t, uint(1), *f.audit.entries[0].ActorConsultantID)
}

func TestTenantOverviewRequiresViewResponses(t *testing.T) {
	f := newRegistryFixture()
	acme := f.tenants.add(&model.Tenant{ID: 10, Slug: "acme", Name: "Acme Inc", Active: true})
	f.seedAssignment(1, acme, true, model.Capabilities{ManageSettings: true, ManageBranding: true})

	_, err := f.registry.TenantOverview(context.Background(), 1, "acme")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.tenants.usageScopes, "denied overviews must not touch tenant data")
	assert.Empty(t, f.audit.entries)
}

func TestVisibleTenantsEmpty(t *testing.T) {
	f := newRegistryFixture()

	tenants, err := f.registry.VisibleTenants(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, tenants)
}
