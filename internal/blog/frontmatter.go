package blog

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"statforge/internal/models"
)

var frontmatterDelimiter = []byte("---")

// ParseFrontmatter splits raw file content into its YAML metadata block and
// the remaining body. A file without a leading "---" block is all body.
// Malformed YAML is not an error: the metadata simply stays at its zero
// value and the body is returned as-is.
func ParseFrontmatter(raw []byte) (models.PostFrontmatter, string) {
	var fm models.PostFrontmatter

	meta, body, ok := splitFrontmatter(raw)
	if !ok {
		return fm, string(raw)
	}
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return models.PostFrontmatter{}, string(body)
	}
	return fm, string(body)
}

// splitFrontmatter cuts the metadata block between two lines consisting of
// the delimiter alone. Matching whole lines keeps a "---" embedded in a
// YAML value from being mistaken for the closing fence.
func splitFrontmatter(raw []byte) (meta, body []byte, ok bool) {
	nl := bytes.IndexByte(raw, '\n')
	if nl < 0 || !isDelimiterLine(raw[:nl]) {
		return nil, nil, false
	}

	rest := raw[nl+1:]
	off := 0
	for {
		end := bytes.IndexByte(rest[off:], '\n')
		if end < 0 {
			if isDelimiterLine(rest[off:]) {
				return rest[:off], nil, true
			}
			return nil, nil, false
		}
		if isDelimiterLine(rest[off : off+end]) {
			return rest[:off], rest[off+end+1:], true
		}
		off += end + 1
	}
}

func isDelimiterLine(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \r"), frontmatterDelimiter)
}
