package blog

import (
	"regexp"
	"strings"

	"statforge/internal/models"
)

var (
	headingRe    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	inlineLinkRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// ExtractTOC scans raw markdown line by line and returns the table of
// contents in document order. Only level 2 and 3 headings are recorded;
// the TOC is deliberately shallow. All heading levels still pass through
// the slugger so that collision suffixes line up with the anchor ids the
// renderer assigns.
func ExtractTOC(source string) []models.TOCItem {
	slugger := NewSlugger()
	var toc []models.TOCItem

	// A fence only closes on the marker that opened it; a "~~~" line inside
	// a backtick block is literal text.
	var fence byte
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			switch {
			case fence == 0:
				fence = trimmed[0]
			case fence == trimmed[0]:
				fence = 0
			}
			continue
		}
		if fence != 0 {
			continue
		}

		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		depth := len(m[1])
		title := strings.TrimSpace(inlineLinkRe.ReplaceAllString(m[2], "$1"))
		slug := slugger.Slug(title)

		if depth != 2 && depth != 3 {
			continue
		}
		toc = append(toc, models.TOCItem{
			Title: title,
			Slug:  slug,
			Depth: depth,
		})
	}
	return toc
}
