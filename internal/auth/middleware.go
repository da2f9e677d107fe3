package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/comtooin/support-center/pkg/util"
)

const adminIDKey = "auth_admin_id"

// AdminMiddleware validates bearer credentials in front of administrative
// routes: missing or invalid tokens fail with 401, a valid token without the
// administrator role with 403.
type AdminMiddleware struct {
	tokens *TokenManager
}

// NewAdminMiddleware constructs middleware.
func NewAdminMiddleware(tokens *TokenManager) *AdminMiddleware {
	return &AdminMiddleware{tokens: tokens}
}

// Handle enforces administrator authentication.
func (m *AdminMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Role != RoleAdmin {
		return apperrors.NewForbidden("administrator role required")
	}

	c.Locals(adminIDKey, claims.AdminID)
	return c.Next()
}

// AdminIDFromContext retrieves the authenticated administrator id.
func AdminIDFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(adminIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
