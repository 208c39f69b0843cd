package blog

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, mathjax.MathJax),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = newSanitizer()
)

// Embeddable components the document body may reference by tag. Anything
// else is left for the sanitizer to strip.
var componentRe = regexp.MustCompile(`<(StatChart|SEMDiagram|RegressionTable)((?:\s+[a-zA-Z][\w-]*="[^"]*")*)\s*/>`)

var componentAttrRe = regexp.MustCompile(`([a-zA-Z][\w-]*)="([^"]*)"`)

// headingIDs adapts the document slugger to goldmark's heading-id
// generator, so compiled anchor ids come from the exact same slugging
// pass as ExtractTOC. Inline link syntax is collapsed to its label first,
// matching the extractor.
type headingIDs struct {
	slugger *Slugger
}

func (h *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	text := inlineLinkRe.ReplaceAllString(string(value), "$1")
	return []byte(h.slugger.Slug(text))
}

func (h *headingIDs) Put(value []byte) {}

// Render compiles a markdown/MDX body to sanitized HTML. Embedded
// component tags are expanded to placeholder divs the frontend hydrates.
func Render(body string) (string, error) {
	source := []byte(expandComponents(body))

	ctx := parser.NewContext(parser.WithIDs(&headingIDs{slugger: NewSlugger()}))

	var buf bytes.Buffer
	if err := markdownRenderer.Convert(source, &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	return string(htmlSanitizer.SanitizeBytes(buf.Bytes())), nil
}

// expandComponents rewrites the closed set of embeddable component tags
// into placeholder divs carrying their attributes as data-* values.
func expandComponents(body string) string {
	return componentRe.ReplaceAllStringFunc(body, func(match string) string {
		sub := componentRe.FindStringSubmatch(match)
		name := strings.ToLower(sub[1])

		var b strings.Builder
		fmt.Fprintf(&b, `<div class="embed" data-component="%s"`, name)
		for _, attr := range componentAttrRe.FindAllStringSubmatch(sub[2], -1) {
			fmt.Fprintf(&b, ` data-%s="%s"`, strings.ToLower(attr[1]), attr[2])
		}
		b.WriteString("></div>")
		return b.String()
	})
}

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("div", "span")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").OnElements("div", "span", "pre", "code")
	p.AllowDataAttributes()
	return p
}

var _ parser.IDs = (*headingIDs)(nil)
