package tenant

import (
	"context"
	"net"
	"strings"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
)

// HeaderName is the request header carrying an explicit tenant slug. When
// present it is authoritative; the host name is never consulted.
const HeaderName = "X-Tenant-ID"

// Lookup is the slice of tenant persistence the resolver needs.
type Lookup interface {
	FindActiveBySlug(ctx context.Context, slug string) (*model.Tenant, error)
}

// Resolver turns an inbound request's header and host into a tenant.
type Resolver struct {
	tenants Lookup
	exempt  []string
}

// NewResolver builds a resolver over the given tenant lookup. exemptPrefixes
// are path prefixes (matched case-insensitively) that skip resolution
// entirely, such as health checks and the resolution endpoint itself.
func NewResolver(tenants Lookup, exemptPrefixes []string) *Resolver {
	exempt := make([]string, len(exemptPrefixes))
	for i, p := range exemptPrefixes {
		exempt[i] = strings.ToLower(p)
	}
	return &Resolver{tenants: tenants, exempt: exempt}
}

// Exempt reports whether the path is excluded from tenant resolution.
func (r *Resolver) Exempt(path string) bool {
	lower := strings.ToLower(path)
	for _, prefix := range r.exempt {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Resolve determines the tenant for a request. The header value wins over
// the host-derived slug; the two are never merged. With a slug in hand, an
// unknown or inactive tenant is ErrTenantNotFound. With no slug at all the
// result is ErrTenantRequired.
func (r *Resolver) Resolve(ctx context.Context, headerValue, host string) (*model.Tenant, error) {
	slug := strings.TrimSpace(headerValue)
	if slug == "" {
		slug = SlugFromHost(host)
	}
	if slug == "" {
		return nil, ErrTenantRequired
	}

	t, err := r.tenants.FindActiveBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTenantNotFound
	}
	return t, nil
}

// SlugFromHost derives a tenant slug from the left-most host label. Only a
// genuine subdomain counts: the host must have at least three dot-separated
// labels, so "acme.example.com" yields "acme" while "example.com" and
// "localhost" yield nothing.
func SlugFromHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}
	return strings.ToLower(labels[0])
}
