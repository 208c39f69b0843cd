package search

import "testing"

func testDocs() []Document {
	return []Document{
		{
			Slug:     "intro-to-sem",
			Title:    "Introduction to Structural Equation Modeling",
			Summary:  "A first look at SEM",
			Group:    "en",
			Category: "tutorials",
			Tags:     []string{"sem"},
			Content:  "Structural equation modeling combines factor analysis and regression.",
		},
		{
			Slug:     "anova-basics",
			Title:    "ANOVA Basics",
			Summary:  "Comparing group means",
			Group:    "en",
			Category: "tutorials",
			Tags:     []string{"anova"},
			Content:  "Analysis of variance tests differences between group means.",
		},
		{
			Slug:    "huigui-rumen",
			Title:   "回归分析入门",
			Summary: "回归基础",
			Group:   "zh",
			Content: "线性回归是最基础的统计模型之一。",
		},
	}
}

func setupIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	if err := idx.Rebuild(testDocs()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	return idx
}

func TestIndexCount(t *testing.T) {
	idx := setupIndex(t)

	count, err := idx.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestSearchFindsByContent(t *testing.T) {
	idx := setupIndex(t)

	results, err := idx.Search("regression", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected at least one hit for 'regression'")
	}
	if results[0].Slug != "intro-to-sem" {
		t.Errorf("Top hit = %q, want intro-to-sem", results[0].Slug)
	}
	if results[0].Title == "" || results[0].Group == "" {
		t.Errorf("Stored fields missing from hit: %+v", results[0])
	}
	if results[0].Score <= 0 {
		t.Errorf("Score = %f, want > 0", results[0].Score)
	}
}

func TestSearchNoMatches(t *testing.T) {
	idx := setupIndex(t)

	results, err := idx.Search("nonexistentterm", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no hits, got %d", len(results))
	}
}

func TestSearchLimitClamped(t *testing.T) {
	idx := setupIndex(t)

	// Out-of-range limits fall back to the default without error
	if _, err := idx.Search("means", 0); err != nil {
		t.Errorf("Search with limit 0 failed: %v", err)
	}
	if _, err := idx.Search("means", 1000); err != nil {
		t.Errorf("Search with huge limit failed: %v", err)
	}
}

func TestRebuildReplacesContents(t *testing.T) {
	idx := setupIndex(t)

	if err := idx.Rebuild([]Document{{Slug: "only", Title: "Only Doc", Content: "solitary"}}); err != nil {
		t.Fatalf("Second rebuild failed: %v", err)
	}

	count, err := idx.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Count after rebuild = %d, want 1", count)
	}

	results, err := idx.Search("regression", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Old documents still searchable after rebuild: %+v", results)
	}
}

func TestRebuildEmpty(t *testing.T) {
	idx := setupIndex(t)

	if err := idx.Rebuild(nil); err != nil {
		t.Fatalf("Empty rebuild failed: %v", err)
	}
	count, _ := idx.Count()
	if count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}
}
