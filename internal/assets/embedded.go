package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader serves the styles and page template compiled into the
// binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(Style, name)
}

func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(Template, name)
}

func (e *EmbeddedLoader) load(kind Kind, name string) (string, error) {
	if err := ValidateName(kind, name); err != nil {
		return "", err
	}
	content, err := builtin.ReadFile(kind.file(name))
	if err != nil {
		return "", fmt.Errorf("%w: %q", kind.notFound(), name)
	}
	return string(content), nil
}

// StyleNames lists the built-in styles.
func (e *EmbeddedLoader) StyleNames() []string {
	names, err := styleNames(builtin)
	if err != nil {
		return nil
	}
	return names
}

// styleNames lists the valid style names under styles/ in fsys, sorted.
func styleNames(fsys fs.FS) ([]string, error) {
	matches, err := fs.Glob(fsys, Style.file("*"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), Style.ext())
		if ValidateName(Style, name) == nil {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
