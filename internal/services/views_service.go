package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"statforge/internal/models"
)

const viewsKey = "statforge:post_views"

// ViewsService tracks per-post view counters in a Redis sorted set. The
// whole service is optional; without REDIS_URL the server runs with view
// counting disabled.
type ViewsService struct {
	client *redis.Client
}

// NewViewsService connects to Redis and verifies the connection
func NewViewsService(redisURL string) (*ViewsService, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ViewsService{client: client}, nil
}

// Increment bumps the view counter for a slug
func (s *ViewsService) Increment(ctx context.Context, slug string) error {
	if err := s.client.ZIncrBy(ctx, viewsKey, 1, slug).Err(); err != nil {
		return fmt.Errorf("failed to increment views for %s: %w", slug, err)
	}
	return nil
}

// Count returns the view counter for one slug (0 if never viewed)
func (s *ViewsService) Count(ctx context.Context, slug string) (int64, error) {
	score, err := s.client.ZScore(ctx, viewsKey, slug).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read views for %s: %w", slug, err)
	}
	return int64(score), nil
}

// Top returns the n most viewed slugs, descending
func (s *ViewsService) Top(ctx context.Context, n int) ([]models.PostViews, error) {
	if n <= 0 {
		n = 5
	}
	entries, err := s.client.ZRevRangeWithScores(ctx, viewsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read top views: %w", err)
	}

	top := make([]models.PostViews, 0, len(entries))
	for _, entry := range entries {
		slug, ok := entry.Member.(string)
		if !ok {
			continue
		}
		top = append(top, models.PostViews{Slug: slug, Views: int64(entry.Score)})
	}
	return top, nil
}

// Close releases the Redis connection
func (s *ViewsService) Close() error {
	return s.client.Close()
}
