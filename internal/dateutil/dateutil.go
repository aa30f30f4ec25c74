// Package dateutil resolves the date stamped on standalone pages.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable date value or format.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength bounds a format string.
const MaxFormatLength = 50

// Today is the keyword replaced by the current date.
const Today = "today"

// DefaultFormat applies to a bare "today".
const DefaultFormat = "YYYY-MM-DD"

// tokens are matched longest first.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named formats usable after "today:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"full":     "dddd, MMMM D, YYYY",
}

// Layout converts a token format such as "DD/MM/YYYY" to a time layout.
// Text inside square brackets is copied literally, as is anything that is not
// a token.
func Layout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		if literal, ok := strings.CutPrefix(rest, "["); ok {
			text, after, found := strings.Cut(literal, "]")
			if !found {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
			}
			b.WriteString(text)
			rest = after
			continue
		}
		rest = writeToken(&b, rest)
	}
	return b.String(), nil
}

// writeToken consumes one token or literal byte from s.
func writeToken(b *strings.Builder, s string) string {
	for _, t := range tokens {
		if after, ok := strings.CutPrefix(s, t.token); ok {
			b.WriteString(t.layout)
			return after
		}
	}
	b.WriteByte(s[0])
	return s[1:]
}

// Resolve turns a configured date into the text to publish.
//
//	""              no date
//	"today"         now in DefaultFormat
//	"today:FORMAT"  now in FORMAT, a token format or a Presets name
//	anything else   used as is
func Resolve(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	keyword, format, hasFormat := strings.Cut(value, ":")
	if !strings.EqualFold(keyword, Today) {
		return value, nil
	}

	if !hasFormat {
		format = DefaultFormat
	} else if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}

	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}
