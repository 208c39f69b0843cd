package handlers

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"statforge/internal/blog"
	"statforge/internal/models"
	"statforge/internal/services"
)

// ProfileHandler serves the authenticated account surface: profile and
// dashboard.
type ProfileHandler struct {
	userService  *services.UserService
	store        *blog.Store
	viewsService *services.ViewsService // nil when Redis is not configured
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService *services.UserService, store *blog.Store, viewsService *services.ViewsService) *ProfileHandler {
	return &ProfileHandler{
		userService:  userService,
		store:        store,
		viewsService: viewsService,
	}
}

// GetProfile returns the authenticated user's profile
// GET /api/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	user, err := h.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	return c.JSON(user.ToResponse())
}

// UpdateProfile updates the authenticated user's own profile
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.userService.UpdateProfile(c.Context(), userID, req); err != nil {
		log.Printf("❌ Failed to update profile for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	user, err := h.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	return c.JSON(user.ToResponse())
}

// GetDashboard returns the account dashboard: credits, recent posts and,
// when view counting is on, the most read posts.
// GET /api/dashboard
func (h *ProfileHandler) GetDashboard(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	user, err := h.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	recent, err := h.store.ListPosts()
	if err != nil {
		slog.Error("failed to list posts for dashboard", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dashboard",
		})
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	response := fiber.Map{
		"user":         user.ToResponse(),
		"credits":      user.Credits,
		"recent_posts": recent,
	}

	if h.viewsService != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if top, err := h.viewsService.Top(ctx, 5); err == nil {
			response["popular_posts"] = top
		} else {
			slog.Warn("failed to load popular posts", "error", err)
		}
	}

	return c.JSON(response)
}
