package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
)

// TenantSummary is one tenant a consultant may operate on, with the
// capability grants taken verbatim from the assignment row.
type TenantSummary struct {
	TenantID     uint               `json:"tenant_id"`
	Slug         string             `json:"slug"`
	Name         string             `json:"name"`
	Capabilities model.Capabilities `json:"capabilities"`
}

// TenantOverview is a consultant's per-tenant drill-down: the summary plus
// usage counts gathered under that tenant's scope.
type TenantOverview struct {
	TenantSummary
	Usage store.TenantUsage `json:"usage"`
}

// Registry computes which tenants a consultant may see and with which
// capabilities. It is read-only over the assignment rows.
type Registry struct {
	assignments store.AssignmentStore
	tenants     store.TenantStore
	audit       store.AuditStore
	log         *zap.Logger
}

// NewRegistry wires a consultant assignment registry.
func NewRegistry(assignments store.AssignmentStore, tenants store.TenantStore, audit store.AuditStore, log *zap.Logger) *Registry {
	return &Registry{assignments: assignments, tenants: tenants, audit: audit, log: log}
}

// VisibleTenants returns the consultant's assigned tenants where both the
// assignment and the tenant are active. Inactive rows on either side are
// silently excluded.
func (r *Registry) VisibleTenants(ctx context.Context, consultantID uint) ([]TenantSummary, error) {
	assignments, err := r.assignments.ActiveForConsultant(ctx, consultantID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}

	summaries := make([]TenantSummary, 0, len(assignments))
	for _, a := range assignments {
		summaries = append(summaries, TenantSummary{
			TenantID:     a.TenantID,
			Slug:         a.Tenant.Slug,
			Name:         a.Tenant.Name,
			Capabilities: a.Capabilities(),
		})
	}
	return summaries, nil
}

// Grant resolves a tenant slug to the consultant's grant on that tenant.
// Unknown or inactive tenants are ErrTenantNotFound; a missing or inactive
// assignment is ErrAccessDenied.
func (r *Registry) Grant(ctx context.Context, consultantID uint, slug string) (*model.Tenant, model.Capabilities, error) {
	t, err := r.tenants.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, model.Capabilities{}, fmt.Errorf("looking up tenant: %w", err)
	}
	if t == nil {
		return nil, model.Capabilities{}, tenant.ErrTenantNotFound
	}

	a, err := r.assignments.Find(ctx, consultantID, t.ID)
	if err != nil {
		return nil, model.Capabilities{}, fmt.Errorf("looking up assignment: %w", err)
	}
	if a == nil {
		return nil, model.Capabilities{}, ErrAccessDenied
	}

	return t, a.Capabilities(), nil
}

// TenantOverview gathers one assigned tenant's usage counts. The tenant
// filter is overridden per tenant with ScopedTo, never with a global
// cross-tenant scope, so a consultant read spans one tenant at a time and
// only tenants the consultant is actually assigned to.
func (r *Registry) TenantOverview(ctx context.Context, consultantID uint, slug string) (*TenantOverview, error) {
	t, caps, err := r.Grant(ctx, consultantID, slug)
	if err != nil {
		return nil, err
	}
	if !caps.Has(model.CapViewResponses) {
		return nil, ErrAccessDenied
	}

	usage, err := r.tenants.UsageFor(ctx, tenant.ScopedTo(t.ID))
	if err != nil {
		return nil, fmt.Errorf("gathering tenant usage: %w", err)
	}

	r.auditRead(ctx, consultantID, t.ID)

	return &TenantOverview{
		TenantSummary: TenantSummary{
			TenantID:     t.ID,
			Slug:         t.Slug,
			Name:         t.Name,
			Capabilities: caps,
		},
		Usage: *usage,
	}, nil
}

func (r *Registry) auditRead(ctx context.Context, consultantID, tenantID uint) {
	actor := consultantID
	entry := &model.AuditLog{
		TenantID:          tenantID,
		ActorConsultantID: &actor,
		Action:            "consultant.tenant_overview",
	}
	if err := r.audit.Append(ctx, entry); err != nil {
		r.log.Warn("failed to append audit entry",
			zap.Uint("consultant_id", consultantID),
			zap.Uint("tenant_id", tenantID),
			zap.Error(err))
	}
}
