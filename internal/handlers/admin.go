package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"statforge/internal/models"
	"statforge/internal/services"
)

// AdminHandler handles admin user management. All routes sit behind
// AdminMiddleware.
type AdminHandler struct {
	userService *services.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// ListUsers returns a paginated list of users
// GET /api/admin/users?offset=0&limit=25
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	offset, _ := strconv.Atoi(c.Query("offset"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, total, err := h.userService.ListUsers(c.Context(), offset, limit)
	if err != nil {
		log.Printf("❌ Failed to list users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list users",
		})
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"users": responses,
		"total": total,
	})
}

// GetUser returns one user's details
// GET /api/admin/users/:userID
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	targetUserID := c.Params("userID")
	if targetUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	user, err := h.userService.GetUserByID(c.Context(), targetUserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user.ToResponse())
}

// UpdateUser mutates a user's role, credit balance and/or active flag
// PATCH /api/admin/users/:userID
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	targetUserID := c.Params("userID")
	if targetUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	var req models.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Role == nil && req.Credits == nil && req.IsActive == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Must provide at least one of 'role', 'credits' or 'is_active'",
		})
	}

	if req.Role != nil && *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}
	if req.Credits != nil && *req.Credits < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Credits cannot be negative",
		})
	}

	// Admins cannot deactivate or demote themselves
	adminUserID, _ := c.Locals("user_id").(string)
	if targetUserID == adminUserID {
		if (req.IsActive != nil && !*req.IsActive) || (req.Role != nil && *req.Role != models.RoleAdmin) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot deactivate or demote your own account",
			})
		}
	}

	err := h.userService.AdminUpdateUser(c.Context(), targetUserID, req)
	if errors.Is(err, services.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if err != nil {
		log.Printf("❌ Failed to update user %s: %v", targetUserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	log.Printf("🔧 Admin %s updated user %s", adminUserID, targetUserID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
	})
}
