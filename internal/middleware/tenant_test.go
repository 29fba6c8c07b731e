package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/jwtutil"
)

type fakeTenantLookup struct {
	tenants map[string]*model.Tenant
}

func (f *fakeTenantLookup) FindActiveBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	return f.tenants[slug], nil
}

func newTestTenantResolver() *tenant.Resolver {
	lookup := &fakeTenantLookup{tenants: map[string]*model.Tenant{
		"acme":   {ID: 1, Slug: "acme", Name: "Acme Inc", Active: true},
		"globex": {ID: 2, Slug: "globex", Name: "Globex", Active: true},
	}}
	return tenant.NewResolver(lookup, []string{"/health", "/auth/tenant", "/auth/consultant"})
}

func userClaims(userID uint, role string, tenantID uint) *jwtutil.Claims {
	return &jwtutil.Claims{
		Kind:             jwtutil.KindUser,
		Email:            "user@acme.test",
		Role:             role,
		TenantID:         &tenantID,
		RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.FormatUint(uint64(userID), 10)},
	}
}

func consultantClaims(consultantID uint) *jwtutil.Claims {
	return &jwtutil.Claims{
		Kind:             jwtutil.KindConsultant,
		Email:            "dana@consultants.test",
		IsConsultant:     true,
		RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.FormatUint(uint64(consultantID), 10)},
	}
}

// runTenantMiddleware sends a request through TenantMiddleware and reports
// the response, the scope the handler observed, and whether it ran at all.
func runTenantMiddleware(t *testing.T, path, headerSlug string, claims *jwtutil.Claims) (*httptest.ResponseRecorder, tenant.Scope, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if headerSlug != "" {
		req.Header.Set(tenant.HeaderName, headerSlug)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(claimsContextKey, claims)
	}

	var (
		called bool
		scope  tenant.Scope
	)
	h := TenantMiddleware(newTestTenantResolver())(func(c echo.Context) error {
		called = true
		scope = tenant.FromEcho(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, scope, called
}

func TestTenantMiddlewareScopesToResolvedTenant(t *testing.T) {
	rec, scope, called := runTenantMiddleware(t, "/auth/login", "acme", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	id, ok := scope.TenantID()
	assert.True(t, ok)
	assert.Equal(t, uint(1), id)
}

func TestTenantMiddlewareExemptPathSkipsResolution(t *testing.T) {
	rec, scope, called := runTenantMiddleware(t, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.False(t, scope.IsSet())
}

func TestTenantMiddlewareConsultantSkipsResolution(t *testing.T) {
	rec, scope, called := runTenantMiddleware(t, "/api/consultant/tenants", "", consultantClaims(9))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.False(t, scope.IsSet(), "consultant requests start unscoped")
}

func TestTenantMiddlewareMissingTenant(t *testing.T) {
	rec, _, called := runTenantMiddleware(t, "/auth/login", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestTenantMiddlewareUnknownTenant(t *testing.T) {
	rec, _, called := runTenantMiddleware(t, "/auth/login", "ghost", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, called)
}

func TestTenantMiddlewareBindsUserToTokenTenant(t *testing.T) {
	rec, scope, called := runTenantMiddleware(t, "/api/users", "acme", userClaims(1, "admin", 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	id, ok := scope.TenantID()
	assert.True(t, ok)
	assert.Equal(t, uint(1), id)
}

func TestTenantMiddlewareRejectsForeignTenantHeader(t *testing.T) {
	// A tenant-1 admin naming another tenant in the header must not be
	// scoped to that tenant.
	rec, _, called := runTenantMiddleware(t, "/api/users", "globex", userClaims(1, "admin", 1))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestTenantMiddlewareRejectsUserClaimsWithoutTenant(t *testing.T) {
	claims := userClaims(1, "admin", 1)
	claims.TenantID = nil

	rec, _, called := runTenantMiddleware(t, "/api/users", "acme", claims)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
