package middleware

import (
	"strings"

	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/config"
	"biblioteca-api/internal/pkg/jwt"
	"biblioteca-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware for downstream handlers
const (
	LocalUserID   = "userID"
	LocalUserRole = "userRole"
	LocalUserName = "userName"
)

// AuthMiddleware verifies the bearer token and attaches the decoded
// identity to the request context
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Token requerido")
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwt.ValidateToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Token expirado")
			}
			return response.Unauthorized(c, "Token inválido")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserRole, claims.Role)
		c.Locals(LocalUserName, claims.Name)

		return c.Next()
	}
}

// RequireRoles creates role-based authorization middleware. The allowed
// set is declared per route; anything outside it is rejected.
func RequireRoles(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(string)
		if !ok {
			return response.Unauthorized(c, "Token requerido")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "No autorizado")
	}
}

// AdminOnly allows only the admin role
func AdminOnly() fiber.Handler {
	return RequireRoles(models.RoleAdmin)
}

// EditorOrAdmin allows editor or admin roles
func EditorOrAdmin() fiber.Handler {
	return RequireRoles(models.RoleEditor, models.RoleAdmin)
}
