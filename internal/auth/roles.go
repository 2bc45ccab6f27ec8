package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin ensures the caller holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}

// RequireRequester ensures the caller may open tickets (client or guest).
func RequireRequester() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.User.Role.CanSubmit() {
			return fiber.NewError(fiber.StatusForbidden, "client or guest session required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated at all.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}
