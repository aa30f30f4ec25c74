// Package scan classifies source lines for the block parser.
//
// Indentation, blank-line, comment and fence decisions all go through here.
package scan

import (
	"strings"
	"unicode"
)

// CommentMarker starts a full-line comment, or an inline comment when it is
// preceded by whitespace.
const CommentMarker = "//"

// FenceMarker opens and closes a verbatim code block.
const FenceMarker = "```"

// Lines splits source into lines, trimming trailing whitespace from each.
// A single trailing newline does not produce an extra empty line.
func Lines(source string) []string {
	if source == "" {
		return nil
	}
	source = strings.TrimSuffix(source, "\n")
	raw := strings.Split(source, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return out
}

// IsBlank reports whether the line has no visible characters.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// CommentOnly reports whether the whole line is a comment and returns its text.
func CommentOnly(line string) (string, bool) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, CommentMarker) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(CommentMarker):]), true
}

// Indent returns the number of leading whitespace characters of a content line.
// ok is false for blank and comment-only lines, which have no indentation.
func Indent(line string) (n int, ok bool) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentMarker) {
		return 0, false
	}
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n, true
}

// SplitComment separates the payload of a line from a trailing inline comment.
//
// The marker only counts when preceded by whitespace and not at the start of the
// trimmed line, so URLs such as https://example.com stay intact. An empty trailing
// comment is reported as absent.
func SplitComment(line string) (content, comment string, hasComment bool) {
	stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
	from := 0
	for {
		i := strings.Index(stripped[from:], CommentMarker)
		if i < 0 {
			break
		}
		at := from + i
		if at > 0 && isSpaceByte(stripped[at-1]) {
			content = strings.TrimRightFunc(stripped[:at], unicode.IsSpace)
			comment = strings.TrimSpace(stripped[at+len(CommentMarker):])
			return content, comment, comment != ""
		}
		from = at + len(CommentMarker)
	}
	return strings.TrimSpace(stripped), "", false
}

// IsFence reports whether trimmed content opens or closes a code block.
func IsFence(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), FenceMarker)
}

// FenceLanguage returns the info string following an opening fence.
func FenceLanguage(content string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(content), FenceMarker))
}

// StripIndent removes at most n leading whitespace characters from line.
func StripIndent(line string, n int) string {
	for i, r := range line {
		if n == 0 || !unicode.IsSpace(r) {
			return line[i:]
		}
		n--
	}
	return ""
}

// LeadingSpace counts the leading whitespace characters of line.
func LeadingSpace(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	}
	return false
}
