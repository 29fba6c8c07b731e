package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/service"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/logger"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// RequireCapability guards a consultant route addressing one tenant by its
// :slug parameter. It verifies the consultant's assignment grants the given
// capability, then scopes the request to that single tenant. This is the
// only place a consultant request acquires a tenant scope, and it is always
// one tenant wide.
func RequireCapability(registry *service.Registry, cap model.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			claims := ClaimsFromEcho(c)
			if claims == nil || !claims.IsConsultant {
				prometheus.RecordAuthError("not_consultant")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "consultant access required"})
			}

			consultantID, err := claims.SubjectID()
			if err != nil {
				prometheus.RecordAuthError("invalid_access_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			slug := c.Param("slug")
			t, caps, err := registry.Grant(c.Request().Context(), consultantID, slug)
			if err != nil {
				switch {
				case errors.Is(err, tenant.ErrTenantNotFound):
					return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
				case errors.Is(err, service.ErrAccessDenied):
					prometheus.RecordAuthError("capability_denied")
					return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
				default:
					log.Error("assignment lookup failed", zap.Error(err))
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
				}
			}

			if !caps.Has(cap) {
				prometheus.RecordAuthError("capability_denied")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}

			tenant.SetEcho(c, tenant.ScopedTo(t.ID), t.Slug)

			return next(c)
		}
	}
}
