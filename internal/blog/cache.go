package blog

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"statforge/internal/models"
)

// Cache memoizes fully loaded posts keyed by file path and modification
// time, so an edited file is never served stale. It is passed into the
// Store explicitly; a nil Cache means every request re-parses from disk.
type Cache struct {
	c *cache.Cache
}

// NewCache creates a post cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: cache.New(ttl, 2*ttl)}
}

func cacheKey(path string, mtime time.Time) string {
	return fmt.Sprintf("%s@%d", path, mtime.UnixNano())
}

// Get returns the cached post for the file at the given mtime, if any.
func (c *Cache) Get(path string, mtime time.Time) (*models.Post, bool) {
	value, found := c.c.Get(cacheKey(path, mtime))
	if !found {
		return nil, false
	}
	post, ok := value.(*models.Post)
	return post, ok
}

// Set stores a loaded post under its file path and mtime.
func (c *Cache) Set(path string, mtime time.Time, post *models.Post) {
	c.c.Set(cacheKey(path, mtime), post, cache.DefaultExpiration)
}

// Flush drops every cached post. The content watcher calls this when
// files change.
func (c *Cache) Flush() {
	c.c.Flush()
}
