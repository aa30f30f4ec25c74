// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// maxListed caps how many names a hint lists.
const maxListed = 8

// userConfigMarker identifies the per-user config directory among searched paths.
var userConfigMarker = string(filepath.Separator) + "spaceup" + string(filepath.Separator)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the per-user config path.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, userConfigMarker) {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForNoInput returns hints for a convert or ast run without input.
func ForNoInput() string {
	return format("pass a .sup file or a directory, or pipe source through stdin with -")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	return listing("available", available)
}

// ForHighlightStyle returns hints for unknown chroma style names.
func ForHighlightStyle(available []string) string {
	return listing("chroma styles include", available)
}

// ForSeparators returns hints for an invalid separator policy.
func ForSeparators() string {
	return format("use --separators blank or --separators comment")
}

// ForMismatch returns hints for a failed check.
func ForMismatch(input string) string {
	return format("inspect the rendering with: spaceup convert " + input + " -o -")
}

func listing(label string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	if len(names) > maxListed {
		names = append(names[:maxListed:maxListed], "...")
	}
	return format(label + ": " + strings.Join(names, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
