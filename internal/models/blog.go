package models

import "time"

// Content groups for the bilingual blog
const (
	GroupEN = "en"
	GroupZH = "zh"
)

// PostFrontmatter is the YAML metadata block at the top of a content file.
// Every field is optional; absent fields stay at their zero value.
type PostFrontmatter struct {
	Slug           string   `yaml:"slug" json:"slug"`
	Title          string   `yaml:"title" json:"title"`
	Summary        string   `yaml:"summary" json:"summary"`
	SEODescription string   `yaml:"seoDescription" json:"seo_description,omitempty"`
	Group          string   `yaml:"group" json:"group,omitempty"` // "en" or "zh"
	Category       string   `yaml:"category" json:"category,omitempty"`
	CategoryLabel  string   `yaml:"categoryLabel" json:"category_label,omitempty"`
	Tags           []string `yaml:"tags" json:"tags"`
	Date           string   `yaml:"date" json:"date,omitempty"` // YYYY-MM-DD
	Updated        string   `yaml:"updated" json:"updated,omitempty"`
	Cover          string   `yaml:"cover" json:"cover,omitempty"`
	Authors        []string `yaml:"authors" json:"authors,omitempty"`
	ReadingTime    string   `yaml:"readingTime" json:"reading_time,omitempty"`
}

// TOCItem is one in-page navigation anchor.
type TOCItem struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Depth int    `json:"depth"` // 2 or 3
}

// Post is a content document. Listings carry metadata only; HTML and TOC
// are populated only when a single document is fully loaded.
type Post struct {
	PostFrontmatter
	Route string    `json:"route"`
	HTML  string    `json:"html,omitempty"`
	TOC   []TOCItem `json:"toc,omitempty"`
}

// PublishedAt parses the frontmatter date. A missing or malformed date
// yields the zero time, which sorts last and contributes no recency score.
func (p *Post) PublishedAt() time.Time {
	if p.Date == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", p.Date); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, p.Date); err == nil {
		return t
	}
	return time.Time{}
}

// PostViews pairs a slug with its view counter for popularity listings.
type PostViews struct {
	Slug  string `json:"slug"`
	Views int64  `json:"views"`
}
