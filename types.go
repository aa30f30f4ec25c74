package spaceup

import "fmt"

// MaxSourceSize is the largest source Convert accepts, in bytes.
const MaxSourceSize = 16 << 20

// TOC depth bounds.
const (
	MinTOCDepth        = 1
	MaxTOCDepth        = 6
	DefaultTOCMinDepth = 1
	DefaultTOCMaxDepth = 3
)

// Input contains conversion parameters.
type Input struct {
	Source    string // required, may be empty
	SourceDir string // directory of the source file, for relative links and images
	Title     string // <title> of a standalone page; defaults to the first heading
	Date      string // date meta tag of a standalone page; empty omits it
	CSS       string // extra CSS appended after the converter style
	TOC       *TOC   // nil means no table of contents

	// Standalone wraps the fragment in a complete HTML page.
	Standalone bool
}

// TOC configures the table of contents.
// Zero depths take the defaults.
type TOC struct {
	Title    string
	MinDepth int // shallowest heading level listed (1-6)
	MaxDepth int // deepest heading level listed (1-6)
}

// Validate checks that TOC depths are in range and ordered.
// Returns nil if t is nil (nil means no TOC).
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	minDepth, maxDepth := t.depths()
	if minDepth < MinTOCDepth || minDepth > MaxTOCDepth {
		return fmt.Errorf("%w: minDepth %d (must be %d-%d)", ErrInvalidTOCDepth, minDepth, MinTOCDepth, MaxTOCDepth)
	}
	if maxDepth < MinTOCDepth || maxDepth > MaxTOCDepth {
		return fmt.Errorf("%w: maxDepth %d (must be %d-%d)", ErrInvalidTOCDepth, maxDepth, MinTOCDepth, MaxTOCDepth)
	}
	if minDepth > maxDepth {
		return fmt.Errorf("%w: minDepth %d exceeds maxDepth %d", ErrInvalidTOCDepth, minDepth, maxDepth)
	}
	return nil
}

func (t *TOC) depths() (minDepth, maxDepth int) {
	minDepth, maxDepth = t.MinDepth, t.MaxDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	if maxDepth == 0 {
		maxDepth = max(DefaultTOCMaxDepth, minDepth)
	}
	return minDepth, maxDepth
}

// ConvertResult contains the output of a conversion.
type ConvertResult struct {
	Document *Document // parsed source
	HTML     []byte    // fragment, or full page when Input.Standalone is set
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds options resolved by NewConverter.
type converterConfig struct {
	styleInput     string // name, path or CSS content
	resolvedStyle  string // CSS content after resolution
	assetPath      string
	highlightStyle string
	rawHTML        bool
	separators     SeparatorPolicy
	inline         InlineRenderer
}

// WithStyle sets the CSS style injected into every result.
// The value is a built-in or custom style name, a path to a CSS file, or CSS
// content (anything containing "{").
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// built-in assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithHighlighting enables chroma syntax highlighting for code blocks using
// the named chroma style. Its stylesheet is added to the injected CSS.
func WithHighlighting(style string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = style
	}
}

// WithRawHTML lets HTML written in the source pass through inline rendering.
// Without it raw HTML is omitted.
func WithRawHTML() Option {
	return func(c *Converter) {
		c.cfg.rawHTML = true
	}
}

// WithSeparatorPolicy selects how the parser recognises visual breaks.
func WithSeparatorPolicy(p SeparatorPolicy) Option {
	return func(c *Converter) {
		c.cfg.separators = p
	}
}

// WithInlineRenderer replaces the goldmark inline renderer.
// WithRawHTML has no effect on a custom renderer.
func WithInlineRenderer(r InlineRenderer) Option {
	return func(c *Converter) {
		c.cfg.inline = r
	}
}
