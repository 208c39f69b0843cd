package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"statforge/internal/blog"
	"statforge/internal/models"
	"statforge/internal/search"
	"statforge/internal/services"
)

// BlogHandler serves the content pipeline: listing, single documents,
// related posts, slug enumeration and search.
type BlogHandler struct {
	store        *blog.Store
	searchIndex  *search.Index          // nil when search is disabled
	viewsService *services.ViewsService // nil when Redis is not configured
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(store *blog.Store, searchIndex *search.Index, viewsService *services.ViewsService) *BlogHandler {
	return &BlogHandler{
		store:        store,
		searchIndex:  searchIndex,
		viewsService: viewsService,
	}
}

// ListPosts returns the sorted index entries
// GET /api/blog/posts?group=en&limit=10
func (h *BlogHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.store.ListPosts()
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list posts",
		})
	}

	if group := c.Query("group"); group != "" {
		filtered := posts[:0]
		for _, post := range posts {
			if post.Group == group {
				filtered = append(filtered, post)
			}
		}
		posts = filtered
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}

	if posts == nil {
		posts = []models.Post{}
	}
	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// GetPost returns one fully compiled document with its table of contents
// GET /api/blog/posts/:slug
func (h *BlogHandler) GetPost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	start := time.Now()
	post, err := h.store.GetPost(slug)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			if m := services.GetMetrics(); m != nil {
				m.PostsNotFound.Inc()
			}
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post not found",
			})
		}
		slog.Error("failed to load post", "slug", slug, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load post",
		})
	}

	if m := services.GetMetrics(); m != nil {
		m.RenderLatency.Observe(time.Since(start).Seconds())
		m.PostsServed.WithLabelValues(post.Group).Inc()
	}

	if h.viewsService != nil {
		go func(slug string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := h.viewsService.Increment(ctx, slug); err != nil {
				slog.Warn("failed to count view", "slug", slug, "error", err)
			}
		}(post.Slug)
	}

	return c.JSON(post)
}

// GetRelated returns the top scoring related posts for a slug
// GET /api/blog/posts/:slug/related?limit=3
func (h *BlogHandler) GetRelated(c *fiber.Ctx) error {
	slug := c.Params("slug")

	posts, err := h.store.ListPosts()
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list posts",
		})
	}

	var target *models.Post
	for i := range posts {
		if posts[i].Slug == slug {
			target = &posts[i]
			break
		}
	}
	if target == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	related := blog.RelatedPosts(*target, posts, limit)

	return c.JSON(fiber.Map{
		"related": related,
	})
}

// GetSlugs enumerates every document slug, used to pre-compute pages
// GET /api/blog/slugs
func (h *BlogHandler) GetSlugs(c *fiber.Ctx) error {
	slugs, err := h.store.Slugs()
	if err != nil {
		slog.Error("failed to enumerate slugs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to enumerate slugs",
		})
	}
	return c.JSON(fiber.Map{
		"slugs": slugs,
	})
}

// Search runs a full-text query over the blog content
// GET /api/blog/search?q=regression&limit=10
func (h *BlogHandler) Search(c *fiber.Ctx) error {
	if h.searchIndex == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Search is not enabled",
		})
	}

	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := h.searchIndex.Search(query, limit)
	if err != nil {
		slog.Error("search failed", "query", query, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	if m := services.GetMetrics(); m != nil {
		m.SearchQueries.Inc()
	}

	return c.JSON(fiber.Map{
		"results": results,
		"count":   len(results),
	})
}
