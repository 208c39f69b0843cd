package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Document is what gets indexed per blog post: metadata plus the raw
// (uncompiled) body text.
type Document struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Group    string   `json:"group"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Content  string   `json:"content"`
}

// Result is one search hit
type Result struct {
	Slug    string  `json:"slug"`
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Group   string  `json:"group"`
	Score   float64 `json:"score"`
}

// Index is an in-memory full-text index over the blog content. Rebuild
// swaps in a fresh index atomically, so searches never observe a
// half-built one.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewIndex creates an empty in-memory search index
func NewIndex() (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{index: idx}, nil
}

// Rebuild replaces the index contents with the given documents
func (i *Index) Rebuild(docs []Document) error {
	mapping := bleve.NewIndexMapping()
	fresh, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}

	batch := fresh.NewBatch()
	const batchSize = 100
	for n, doc := range docs {
		if err := batch.Index(doc.Slug, doc); err != nil {
			fresh.Close()
			return fmt.Errorf("failed to add %s to batch: %w", doc.Slug, err)
		}
		if (n+1)%batchSize == 0 {
			if err := fresh.Batch(batch); err != nil {
				fresh.Close()
				return fmt.Errorf("failed to index batch: %w", err)
			}
			batch = fresh.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := fresh.Batch(batch); err != nil {
			fresh.Close()
			return fmt.Errorf("failed to index final batch: %w", err)
		}
	}

	i.mu.Lock()
	old := i.index
	i.index = fresh
	i.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Search runs a match query and returns up to limit hits by relevance
func (i *Index) Search(queryString string, limit int) ([]Result, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	query := bleve.NewMatchQuery(queryString)
	request := bleve.NewSearchRequest(query)
	request.Size = limit
	request.Fields = []string{"slug", "title", "summary", "group"}

	searchResult, err := i.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := Result{Slug: hit.ID, Score: hit.Score}
		if title, ok := hit.Fields["title"].(string); ok {
			result.Title = title
		}
		if summary, ok := hit.Fields["summary"].(string); ok {
			result.Summary = summary
		}
		if group, ok := hit.Fields["group"].(string); ok {
			result.Group = group
		}
		results = append(results, result)
	}
	return results, nil
}

// Count returns the number of indexed documents
func (i *Index) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.DocCount()
}

// Close releases the underlying index
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}
