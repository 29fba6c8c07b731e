package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/jwtutil"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/logger"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

const claimsContextKey = "claims"

// ClaimsFromEcho returns the validated access-token claims, if any.
func ClaimsFromEcho(c echo.Context) *jwtutil.Claims {
	claims, _ := c.Get(claimsContextKey).(*jwtutil.Claims)
	return claims
}

// AuthMiddleware validates the bearer access token and stores its claims in
// the request context. Both principal kinds pass through here; the kind
// claim tells them apart downstream.
func AuthMiddleware(jwt *jwtutil.JWT) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwt.Validate(parts[1])
			if err != nil {
				log.Warn("invalid access token", zap.Error(err))
				prometheus.RecordAuthError("invalid_access_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(claimsContextKey, claims)

			return next(c)
		}
	}
}

// RequireConsultant rejects requests whose token is not a consultant token.
func RequireConsultant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := ClaimsFromEcho(c)
		if claims == nil || !claims.IsConsultant || claims.Kind != jwtutil.KindConsultant {
			prometheus.RecordAuthError("not_consultant")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "consultant access required"})
		}
		return next(c)
	}
}

// RequireRole rejects tenant-user requests below the given role. Consultant
// tokens never pass: they carry no tenant role.
func RequireRole(min string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromEcho(c)
			if claims == nil || claims.Kind != jwtutil.KindUser {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
			}
			if !roleAtLeast(claims.Role, min) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}

func roleAtLeast(have, min string) bool {
	h, m := model.Role(have), model.Role(min)
	return h.Valid() && m.Valid() && h.AtLeast(m)
}
