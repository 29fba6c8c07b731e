package service

import (
	"context"
	"sort"
	"time"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
)

// In-memory store fakes mirroring the contracts of internal/store: lookups
// return (nil, nil) on no match, tenant-owned reads honor the scope the way
// Scope.Filter does, and Rotate enforces one-time rotation.

type mockUserStore struct {
	users map[uint]*model.TenantUser
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uint]*model.TenantUser)}
}

func (m *mockUserStore) add(u *model.TenantUser) *model.TenantUser {
	m.users[u.ID] = u
	return u
}

func scopeMatches(scope tenant.Scope, tenantID uint) bool {
	if !scope.IsSet() {
		return false
	}
	if scope.IsCrossTenant() {
		return true
	}
	id, _ := scope.TenantID()
	return id == tenantID
}

func (m *mockUserStore) FindActiveByEmail(ctx context.Context, scope tenant.Scope, email string) (*model.TenantUser, error) {
	for _, u := range m.users {
		if u.Email == email && u.Active && scopeMatches(scope, u.TenantID) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) FindActiveByID(ctx context.Context, id uint) (*model.TenantUser, error) {
	u, ok := m.users[id]
	if !ok || !u.Active {
		return nil, nil
	}
	return u, nil
}

func (m *mockUserStore) List(ctx context.Context, scope tenant.Scope) ([]model.TenantUser, error) {
	var out []model.TenantUser
	for _, u := range m.users {
		if u.Active && scopeMatches(scope, u.TenantID) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *mockUserStore) StampLastLogin(ctx context.Context, id uint, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type mockConsultantStore struct {
	consultants map[uint]*model.Consultant
}

func newMockConsultantStore() *mockConsultantStore {
	return &mockConsultantStore{consultants: make(map[uint]*model.Consultant)}
}

func (m *mockConsultantStore) add(c *model.Consultant) *model.Consultant {
	m.consultants[c.ID] = c
	return c
}

func (m *mockConsultantStore) FindActiveByEmail(ctx context.Context, email string) (*model.Consultant, error) {
	for _, c := range m.consultants {
		if c.Email == email && c.Active {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockConsultantStore) FindActiveByID(ctx context.Context, id uint) (*model.Consultant, error) {
	c, ok := m.consultants[id]
	if !ok || !c.Active {
		return nil, nil
	}
	return c, nil
}

func (m *mockConsultantStore) StampLastLogin(ctx context.Context, id uint, at time.Time) error {
	if c, ok := m.consultants[id]; ok {
		c.LastLoginAt = &at
	}
	return nil
}

type mockRefreshTokenStore struct {
	tokens map[string]*model.RefreshToken
	nextID uint
}

func newMockRefreshTokenStore() *mockRefreshTokenStore {
	return &mockRefreshTokenStore{tokens: make(map[string]*model.RefreshToken)}
}

func (m *mockRefreshTokenStore) Create(ctx context.Context, token *model.RefreshToken) error {
	m.nextID++
	token.ID = m.nextID
	token.CreatedAt = time.Now()
	m.tokens[token.Token] = token
	return nil
}

func kindMatches(t *model.RefreshToken, kind model.OwnerKind) bool {
	owner, ok := t.Owner()
	return ok && owner.Kind == kind
}

func (m *mockRefreshTokenStore) FindActive(ctx context.Context, token string, kind model.OwnerKind) (*model.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok || !kindMatches(t, kind) || !t.IsActive() {
		return nil, nil
	}
	return t, nil
}

func (m *mockRefreshTokenStore) Revoke(ctx context.Context, token string, kind model.OwnerKind) error {
	t, ok := m.tokens[token]
	if !ok || !kindMatches(t, kind) || t.IsRevoked() {
		return nil
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (m *mockRefreshTokenStore) Rotate(ctx context.Context, old *model.RefreshToken, next *model.RefreshToken) error {
	t, ok := m.tokens[old.Token]
	if !ok || t.IsRevoked() {
		return store.ErrConflict
	}
	now := time.Now()
	t.RevokedAt = &now
	return m.Create(ctx, next)
}

type mockAssignmentStore struct {
	assignments []model.ConsultantTenantAssignment
}

func (m *mockAssignmentStore) ActiveForConsultant(ctx context.Context, consultantID uint) ([]model.ConsultantTenantAssignment, error) {
	var out []model.ConsultantTenantAssignment
	for _, a := range m.assignments {
		if a.ConsultantID == consultantID && a.Active && a.Tenant.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssignmentStore) Find(ctx context.Context, consultantID, tenantID uint) (*model.ConsultantTenantAssignment, error) {
	for i, a := range m.assignments {
		if a.ConsultantID == consultantID && a.TenantID == tenantID && a.Active && a.Tenant.Active {
			return &m.assignments[i], nil
		}
	}
	return nil, nil
}

type mockTenantStore struct {
	tenants map[string]*model.Tenant
	usage   map[uint]*store.TenantUsage

	usageScopes []tenant.Scope
}

func newMockTenantStore() *mockTenantStore {
	return &mockTenantStore{
		tenants: make(map[string]*model.Tenant),
		usage:   make(map[uint]*store.TenantUsage),
	}
}

func (m *mockTenantStore) add(t *model.Tenant) *model.Tenant {
	m.tenants[t.Slug] = t
	return t
}

func (m *mockTenantStore) FindActiveBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	t, ok := m.tenants[slug]
	if !ok || !t.Active {
		return nil, nil
	}
	return t, nil
}

func (m *mockTenantStore) FindActiveByID(ctx context.Context, id uint) (*model.Tenant, error) {
	for _, t := range m.tenants {
		if t.ID == id && t.Active {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTenantStore) UsageFor(ctx context.Context, scope tenant.Scope) (*store.TenantUsage, error) {
	m.usageScopes = append(m.usageScopes, scope)
	if id, ok := scope.TenantID(); ok {
		if u, ok := m.usage[id]; ok {
			return u, nil
		}
	}
	return &store.TenantUsage{}, nil
}

type mockAuditStore struct {
	entries []model.AuditLog
}

func (m *mockAuditStore) Append(ctx context.Context, entry *model.AuditLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditStore) List(ctx context.Context, scope tenant.Scope, limit int) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, e := range m.entries {
		if scopeMatches(scope, e.TenantID) {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
