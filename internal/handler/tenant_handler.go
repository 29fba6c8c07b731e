package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/middleware"
	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/logger"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// TenantHandler exposes the tenant-resolution probe and the tenant-scoped
// user-administration endpoints.
type TenantHandler struct {
	resolver    *tenant.Resolver
	users       store.UserStore
	invitations store.InvitationStore
}

// NewTenantHandler wires the tenant endpoints.
func NewTenantHandler(resolver *tenant.Resolver, users store.UserStore, invitations store.InvitationStore) *TenantHandler {
	return &TenantHandler{resolver: resolver, users: users, invitations: invitations}
}

// ResolveTenant is the resolution probe: it applies the header/host protocol
// and reports which tenant the request would land on. The path itself is
// exempt from the tenant middleware so clients can probe before logging in.
func (h *TenantHandler) ResolveTenant(c echo.Context) error {
	t, err := h.resolver.Resolve(c.Request().Context(), c.Request().Header.Get(tenant.HeaderName), c.Request().Host)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrTenantRequired):
			prometheus.RecordTenantResolution("required")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant required"})
		case errors.Is(err, tenant.ErrTenantNotFound):
			prometheus.RecordTenantResolution("not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		default:
			logger.FromContext(c).Error("tenant resolution failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	prometheus.RecordTenantResolution("resolved")
	return c.JSON(http.StatusOK, echo.Map{
		"tenant": echo.Map{
			"id":   t.ID,
			"slug": t.Slug,
			"name": t.Name,
		},
	})
}

// Me returns the authenticated principal's claims summary.
func (h *TenantHandler) Me(c echo.Context) error {
	claims := middleware.ClaimsFromEcho(c)

	resp := echo.Map{
		"subject": claims.Subject,
		"kind":    claims.Kind,
		"email":   claims.Email,
		"name":    claims.Name,
	}
	if claims.TenantID != nil {
		resp["tenant_id"] = *claims.TenantID
		resp["role"] = claims.Role
	}
	if claims.IsConsultant {
		resp["is_consultant"] = true
	}

	return c.JSON(http.StatusOK, resp)
}

// ListUsers returns the current tenant's active users. Admin only.
func (h *TenantHandler) ListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	users, err := h.users.List(c.Request().Context(), tenant.FromEcho(c))
	if err != nil {
		log.Error("listing users failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// CreateInvitation invites an email address into the current tenant with a
// role. Admin only.
func (h *TenantHandler) CreateInvitation(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleMember
	}
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	claims := middleware.ClaimsFromEcho(c)
	invitedBy, err := claims.SubjectID()
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	inv := &model.Invitation{
		Email:       req.Email,
		Role:        role,
		InvitedByID: invitedBy,
		ExpiresAt:   time.Now().Add(7 * 24 * time.Hour),
	}
	if err := h.invitations.Create(c.Request().Context(), tenant.FromEcho(c), inv); err != nil {
		log.Error("creating invitation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, inv)
}

// ListInvitations returns the current tenant's pending invitations. Admin only.
func (h *TenantHandler) ListInvitations(c echo.Context) error {
	log := logger.FromContext(c)

	invs, err := h.invitations.ListPending(c.Request().Context(), tenant.FromEcho(c))
	if err != nil {
		log.Error("listing invitations failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"invitations": invs})
}
