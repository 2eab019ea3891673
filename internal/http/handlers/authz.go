package handlers

import (
	"strings"

	"reliefmarket/internal/auth"
	applog "reliefmarket/internal/log"

	"github.com/gofiber/fiber/v2"
)

func extractToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// claims in Locals for downstream handlers.
func RequireAuth(tokens *auth.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := extractToken(c)
		if tok == "" {
			return fail(c, fiber.StatusUnauthorized, "No token provided")
		}
		claims, err := tokens.Validate(tok)
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"reason": err.Error()})
			return fail(c, fiber.StatusUnauthorized, "Invalid token")
		}
		c.Locals("user", claims)
		return c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through; public listings filter differently for the two.
func OptionalAuth(tokens *auth.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := extractToken(c); tok != "" {
			if claims, err := tokens.Validate(tok); err == nil {
				c.Locals("user", claims)
			}
		}
		return c.Next()
	}
}

// RequireRole gates a route to callers holding one of the given roles.
// Must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return fail(c, fiber.StatusUnauthorized, "No token provided")
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"required": roles})
		return fail(c, fiber.StatusForbidden, "Insufficient permissions")
	}
}

// CurrentClaims returns the authenticated caller's claims, or nil.
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("user").(*auth.Claims)
	return claims
}
