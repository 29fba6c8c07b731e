package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/middleware"
	"github.com/jonmorleyjones/hrportal-sub001/internal/service"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/logger"
)

// ConsultantHandler exposes the consultant auth flow and the cross-tenant
// endpoints backed by the assignment registry.
type ConsultantHandler struct {
	consultants *service.ConsultantAuthService
	registry    *service.Registry
	audit       store.AuditStore
}

// NewConsultantHandler wires the consultant endpoints.
func NewConsultantHandler(consultants *service.ConsultantAuthService, registry *service.Registry, audit store.AuditStore) *ConsultantHandler {
	return &ConsultantHandler{consultants: consultants, registry: registry, audit: audit}
}

// Login authenticates a consultant and returns the token pair plus the
// visible-tenant list for the client's tenant picker.
func (h *ConsultantHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	result, err := h.consultants.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Error("consultant login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, result)
}

// Refresh rotates a consultant refresh token.
func (h *ConsultantHandler) Refresh(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	result, err := h.consultants.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		log.Error("consultant refresh failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, result)
}

// Logout revokes the submitted consultant refresh token.
func (h *ConsultantHandler) Logout(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	if err := h.consultants.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		log.Error("consultant logout failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ListTenants returns the consultant's visible tenants with capabilities.
func (h *ConsultantHandler) ListTenants(c echo.Context) error {
	log := logger.FromContext(c)

	claims := middleware.ClaimsFromEcho(c)
	consultantID, err := claims.SubjectID()
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	tenants, err := h.registry.VisibleTenants(c.Request().Context(), consultantID)
	if err != nil {
		log.Error("listing visible tenants failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"tenants": tenants})
}

// TenantOverview returns usage counts for one assigned tenant. Requires the
// view-responses capability on the assignment.
func (h *ConsultantHandler) TenantOverview(c echo.Context) error {
	log := logger.FromContext(c)

	claims := middleware.ClaimsFromEcho(c)
	consultantID, err := claims.SubjectID()
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	overview, err := h.registry.TenantOverview(c.Request().Context(), consultantID, c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrTenantNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		case errors.Is(err, service.ErrAccessDenied):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
		default:
			log.Error("tenant overview failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, overview)
}

// TenantAuditLog returns the recent audit trail of one assigned tenant. The
// capability middleware has already verified the grant and scoped the
// request to that tenant.
func (h *ConsultantHandler) TenantAuditLog(c echo.Context) error {
	log := logger.FromContext(c)

	entries, err := h.audit.List(c.Request().Context(), tenant.FromEcho(c), 50)
	if err != nil {
		log.Error("listing audit log failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}
