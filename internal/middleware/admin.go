package middleware

import (
	"github.com/gofiber/fiber/v2"

	"statforge/internal/models"
)

// AdminMiddleware rejects any request whose authenticated role is not the
// admin marker. Runs after AuthMiddleware, before any data access.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		role, ok := c.Locals("user_role").(string)
		if !ok || role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}
