package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"statforge/internal/search"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	searchIndex *search.Index // nil when search is disabled
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(searchIndex *search.Index) *HealthHandler {
	return &HealthHandler{searchIndex: searchIndex}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if h.searchIndex != nil {
		if count, err := h.searchIndex.Count(); err == nil {
			status["posts_indexed"] = count
		}
	}
	return c.JSON(status)
}
