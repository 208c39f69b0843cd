package blog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"statforge/internal/models"
)

// BasePath is the route prefix for all blog documents.
const BasePath = "/blog"

// ErrPostNotFound is returned when no content file matches a slug.
var ErrPostNotFound = errors.New("post not found")

var contentExtensions = []string{".mdx", ".md"}

// Store reads and parses content documents from a directory on disk.
// Every read goes back to the files; the optional cache only short-cuts
// re-rendering a file whose mtime has not changed.
type Store struct {
	dir   string
	cache *Cache
}

// NewStore creates a content store over the given directory. cache may be
// nil to disable memoization.
func NewStore(dir string, cache *Cache) *Store {
	return &Store{dir: dir, cache: cache}
}

// Dir returns the content directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// ListPosts enumerates every content file, parses frontmatter only and
// returns index entries sorted by publish date, most recent first. An
// unreadable content directory is an error, never an empty list.
func (s *Store) ListPosts() ([]models.Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory %s: %w", s.dir, err)
	}

	var posts []models.Post
	for _, entry := range entries {
		if entry.IsDir() || !hasContentExtension(entry.Name()) {
			continue
		}
		post, err := s.loadMeta(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping unreadable content file", "file", entry.Name(), "error", err)
			continue
		}
		posts = append(posts, post)
	}

	// Stable sort keeps enumeration order for equal dates.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt().After(posts[j].PublishedAt())
	})
	return posts, nil
}

// Slugs returns the slug of every content document, used to pre-compute
// which single-document pages exist.
func (s *Store) Slugs() ([]string, error) {
	posts, err := s.ListPosts()
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs, nil
}

// GetPost locates and fully loads one document: frontmatter, compiled
// HTML and the table of contents. A missing slug yields ErrPostNotFound.
func (s *Store) GetPost(slug string) (models.Post, error) {
	path, err := s.resolve(slug)
	if err != nil {
		return models.Post{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(path, info.ModTime()); ok {
			return *cached, nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	fm, body := ParseFrontmatter(raw)
	applyDefaults(&fm, path, body)

	rendered, err := Render(body)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to render %s: %w", slug, err)
	}

	post := models.Post{
		PostFrontmatter: fm,
		Route:           BasePath + "/" + fm.Slug,
		HTML:            rendered,
		TOC:             ExtractTOC(body),
	}

	if s.cache != nil {
		s.cache.Set(path, info.ModTime(), &post)
	}
	return post, nil
}

// GetBody returns a document's frontmatter and raw body without compiling
// it. The search indexer uses this to avoid paying for HTML it discards.
func (s *Store) GetBody(slug string) (models.Post, string, error) {
	path, err := s.resolve(slug)
	if err != nil {
		return models.Post{}, "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Post{}, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	fm, body := ParseFrontmatter(raw)
	applyDefaults(&fm, path, body)
	return models.Post{PostFrontmatter: fm, Route: BasePath + "/" + fm.Slug}, body, nil
}

// loadMeta builds an index entry from one file: frontmatter plus derived
// slug, reading time and route. Body text is discarded after the word
// count.
func (s *Store) loadMeta(path string) (models.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	fm, body := ParseFrontmatter(raw)
	applyDefaults(&fm, path, body)

	return models.Post{
		PostFrontmatter: fm,
		Route:           BasePath + "/" + fm.Slug,
	}, nil
}

// resolve maps a slug to a file path. Filename matches are tried first;
// otherwise the directory is scanned for a frontmatter-declared slug.
func (s *Store) resolve(slug string) (string, error) {
	if slug == "" || strings.ContainsAny(slug, "/\\") || strings.Contains(slug, "..") {
		return "", ErrPostNotFound
	}

	for _, ext := range contentExtensions {
		path := filepath.Join(s.dir, slug+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to read content directory %s: %w", s.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !hasContentExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		post, err := s.loadMeta(path)
		if err != nil {
			continue
		}
		if post.Slug == slug {
			return path, nil
		}
	}
	return "", ErrPostNotFound
}

func applyDefaults(fm *models.PostFrontmatter, path, body string) {
	if fm.Slug == "" {
		name := filepath.Base(path)
		fm.Slug = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	if fm.ReadingTime == "" {
		fm.ReadingTime = EstimateReadingTime(body)
	}
}

func hasContentExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, allowed := range contentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
