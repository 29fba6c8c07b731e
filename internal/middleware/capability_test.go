package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/service"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/jwtutil"
)

type fakeTenantStore struct {
	tenants map[string]*model.Tenant
}

func (f *fakeTenantStore) FindActiveBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	return f.tenants[slug], nil
}

func (f *fakeTenantStore) FindActiveByID(ctx context.Context, id uint) (*model.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantStore) UsageFor(ctx context.Context, scope tenant.Scope) (*store.TenantUsage, error) {
	return &store.TenantUsage{}, nil
}

type fakeAssignmentStore struct {
	assignments []model.ConsultantTenantAssignment
}

func (f *fakeAssignmentStore) ActiveForConsultant(ctx context.Context, consultantID uint) ([]model.ConsultantTenantAssignment, error) {
	var out []model.ConsultantTenantAssignment
	for _, a := range f.assignments {
		if a.ConsultantID == consultantID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) Find(ctx context.Context, consultantID, tenantID uint) (*model.ConsultantTenantAssignment, error) {
	for i, a := range f.assignments {
		if a.ConsultantID == consultantID && a.TenantID == tenantID && a.Active {
			return &f.assignments[i], nil
		}
	}
	return nil, nil
}

type fakeAuditStore struct{}

func (fakeAuditStore) Append(ctx context.Context, entry *model.AuditLog) error { return nil }
func (fakeAuditStore) List(ctx context.Context, scope tenant.Scope, limit int) ([]model.AuditLog, error) {
	return nil, nil
}

func newTestRegistry() *service.Registry {
	tenants := &fakeTenantStore{tenants: map[string]*model.Tenant{
		"acme": {ID: 10, Slug: "acme", Name: "Acme Inc", Active: true},
	}}
	assignments := &fakeAssignmentStore{assignments: []model.ConsultantTenantAssignment{
		{ID: 1, ConsultantID: 9, TenantID: 10, Active: true, ManageSettings: true},
	}}
	return service.NewRegistry(assignments, tenants, fakeAuditStore{}, zap.NewNop())
}

func runCapabilityMiddleware(t *testing.T, cap model.Capability, slug string, claims *jwtutil.Claims) (*httptest.ResponseRecorder, tenant.Scope, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/consultant/tenants/"+slug+"/audit", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues(slug)
	if claims != nil {
		c.Set(claimsContextKey, claims)
	}

	var (
		called bool
		scope  tenant.Scope
	)
	h := RequireCapability(newTestRegistry(), cap)(func(c echo.Context) error {
		called = true
		scope = tenant.FromEcho(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, scope, called
}

func TestRequireCapabilityGrantsScopedAccess(t *testing.T) {
	rec, scope, called := runCapabilityMiddleware(t, model.CapManageSettings, "acme", consultantClaims(9))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	// The grant scopes the request to exactly the addressed tenant.
	id, ok := scope.TenantID()
	assert.True(t, ok)
	assert.Equal(t, uint(10), id)
	assert.False(t, scope.IsCrossTenant())
}

func TestRequireCapabilityDeniesMissingCapability(t *testing.T) {
	rec, _, called := runCapabilityMiddleware(t, model.CapManageBranding, "acme", consultantClaims(9))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireCapabilityDeniesUnassignedConsultant(t *testing.T) {
	rec, _, called := runCapabilityMiddleware(t, model.CapManageSettings, "acme", consultantClaims(4))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireCapabilityUnknownTenant(t *testing.T) {
	rec, _, called := runCapabilityMiddleware(t, model.CapManageSettings, "ghost", consultantClaims(9))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, called)
}

func TestRequireCapabilityRejectsTenantUser(t *testing.T) {
	rec, _, called := runCapabilityMiddleware(t, model.CapManageSettings, "acme", userClaims(1, "admin", 1))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
