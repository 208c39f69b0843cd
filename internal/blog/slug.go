package blog

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify converts heading or title text into a URL-safe anchor slug:
// lowercase, whitespace collapsed to hyphens, everything else except
// letters, digits, hyphens and underscores dropped. The renderer and the
// TOC extractor both slug through this function so in-page anchors always
// resolve.
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	lastHyphen := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		}
	}
	return strings.Trim(b.String(), "-")
}

// Slugger issues document-unique slugs. Repeated headings get an
// incrementing numeric suffix: overview, overview-1, overview-2, ...
type Slugger struct {
	seen map[string]int
}

// NewSlugger returns a fresh slugger. One instance covers one document.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns the unique anchor slug for the given heading text.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	if base == "" {
		base = "heading"
	}

	n, ok := s.seen[base]
	if !ok {
		s.seen[base] = 0
		return base
	}
	n++
	s.seen[base] = n
	return fmt.Sprintf("%s-%d", base, n)
}
