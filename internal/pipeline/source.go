package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark unchanged, so raw HTML can stay disabled.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

const byteOrderMark = "\uFEFF"

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// ==text==
	highlightPattern = regexp.MustCompile(`==(.*?)==`)
)

// SourcePreprocessor prepares raw source text for the block parser.
type SourcePreprocessor interface {
	PreprocessSource(ctx context.Context, content string) string
}

// SourceNormalizer strips a leading byte order mark and normalizes line endings.
type SourceNormalizer struct{}

// PreprocessSource returns content ready for line splitting.
func (p *SourceNormalizer) PreprocessSource(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = strings.TrimPrefix(content, byteOrderMark)
	return normalizeLineEndings(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// convertHighlights transforms ==text== to placeholder markers.
func convertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
