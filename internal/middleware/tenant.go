package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/jwtutil"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/logger"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// TenantMiddleware resolves the request's tenant and writes the resulting
// scope into the request context. Exempt paths and consultant tokens skip
// resolution and leave the scope Unset, which denies tenant-owned reads
// until a consultant code path explicitly scopes itself via the registry.
// Requests authenticated as a tenant user must resolve to the tenant in
// their token; a mismatch is rejected before any scope is set.
func TenantMiddleware(resolver *tenant.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			if resolver.Exempt(c.Request().URL.Path) {
				prometheus.RecordTenantResolution("exempt")
				return next(c)
			}

			if claims := ClaimsFromEcho(c); claims != nil && claims.IsConsultant {
				// Consultants carry no request tenant; their reach comes
				// from the assignment registry per call.
				return next(c)
			}

			headerValue := c.Request().Header.Get(tenant.HeaderName)
			host := c.Request().Host

			t, err := resolver.Resolve(c.Request().Context(), headerValue, host)
			if err != nil {
				switch {
				case errors.Is(err, tenant.ErrTenantRequired):
					prometheus.RecordTenantResolution("required")
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant required"})
				case errors.Is(err, tenant.ErrTenantNotFound):
					prometheus.RecordTenantResolution("not_found")
					return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
				default:
					log.Error("tenant resolution failed", zap.Error(err))
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
				}
			}

			// An authenticated user is bound to their token's tenant. The
			// header and host only identify a tenant; they never widen what
			// the token grants.
			if claims := ClaimsFromEcho(c); claims != nil && claims.Kind == jwtutil.KindUser {
				if claims.TenantID == nil || *claims.TenantID != t.ID {
					prometheus.RecordAuthError("tenant_mismatch")
					return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
				}
			}

			prometheus.RecordTenantResolution("resolved")
			tenant.SetEcho(c, tenant.ScopedTo(t.ID), t.Slug)

			return next(c)
		}
	}
}
