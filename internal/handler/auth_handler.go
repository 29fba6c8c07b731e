package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/service"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/logger"
)

// AuthHandler exposes login, refresh and logout for tenant users.
type AuthHandler struct {
	users *service.UserAuthService
}

// NewAuthHandler wires the tenant-user auth endpoints.
func NewAuthHandler(users *service.UserAuthService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Login authenticates a tenant user within the resolved tenant.
func (h *AuthHandler) Login(c echo.Context) error {
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

	result, err := h.users.Login(c.Request().Context(), tenant.FromEcho(c), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Error("login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, result)
}

// Refresh redeems a refresh token for a new access/refresh pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	result, err := h.users.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		log.Error("refresh failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, result)
}

// Logout revokes the submitted refresh token. Always 200 for a well-formed
// request, revoked or not.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	if err := h.users.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		log.Error("logout failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
