package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownRender indicates goldmark failed to render a span or block.
var ErrMarkdownRender = errors.New("markdown rendering failed")

// MarkdownRenderer renders inline spans and whole quoted blocks.
type MarkdownRenderer interface {
	RenderInline(text string) (string, error)
	RenderBlock(text string) (string, error)
}

// GoldmarkRenderer renders Markdown with goldmark and the GFM extensions.
// It is safe for concurrent use.
type GoldmarkRenderer struct {
	inline goldmark.Markdown
	block  goldmark.Markdown
}

type goldmarkConfig struct {
	rawHTML        bool
	highlightStyle string
}

// GoldmarkOption configures a GoldmarkRenderer.
type GoldmarkOption func(*goldmarkConfig)

// WithUnsafeHTML lets raw HTML in the source through to the output.
func WithUnsafeHTML() GoldmarkOption {
	return func(c *goldmarkConfig) {
		c.rawHTML = true
	}
}

// WithBlockHighlighting highlights fenced code inside quoted blocks with the
// named chroma style.
func WithBlockHighlighting(style string) GoldmarkOption {
	return func(c *goldmarkConfig) {
		c.highlightStyle = style
	}
}

// NewGoldmarkRenderer creates a GoldmarkRenderer.
func NewGoldmarkRenderer(opts ...GoldmarkOption) *GoldmarkRenderer {
	var cfg goldmarkConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithRendererOptions(rendererOptions(cfg)...),
	}

	blockExtensions := []goldmark.Extender{extension.GFM}
	if cfg.highlightStyle != "" {
		blockExtensions = append(blockExtensions, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.highlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}

	return &GoldmarkRenderer{
		inline: goldmark.New(append(rendererOpts,
			goldmark.WithExtensions(extension.GFM),
		)...),
		block: goldmark.New(append(rendererOpts,
			goldmark.WithExtensions(blockExtensions...),
		)...),
	}
}

func rendererOptions(cfg goldmarkConfig) []renderer.Option {
	opts := []renderer.Option{html.WithXHTML()}
	if cfg.rawHTML {
		opts = append(opts, html.WithUnsafe())
	}
	return opts
}

// RenderInline renders a single span. A lone enclosing paragraph is removed
// and ==text== becomes <mark>text</mark>.
func (r *GoldmarkRenderer) RenderInline(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.inline.Convert([]byte(convertHighlights(text)), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}
	out := unwrapParagraph(strings.TrimSpace(buf.String()))
	return ConvertMarkPlaceholders(out), nil
}

// RenderBlock renders multi-line Markdown as structural HTML.
func (r *GoldmarkRenderer) RenderBlock(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.block.Convert([]byte(convertHighlights(text)), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}
	return ConvertMarkPlaceholders(strings.TrimRight(buf.String(), "\n")), nil
}

// unwrapParagraph strips <p>...</p> when it is the only paragraph.
func unwrapParagraph(s string) string {
	if !strings.HasPrefix(s, "<p>") || !strings.HasSuffix(s, "</p>") {
		return s
	}
	if strings.Count(s, "<p>") != 1 {
		return s
	}
	return s[len("<p>") : len(s)-len("</p>")]
}

// HeadingIDs hands out unique anchor IDs for heading text, using goldmark's
// generator so IDs match what goldmark itself would produce.
// A HeadingIDs must not be shared between documents.
type HeadingIDs struct {
	ids parser.IDs
}

// NewHeadingIDs creates an empty ID set.
func NewHeadingIDs() *HeadingIDs {
	return &HeadingIDs{ids: parser.NewContext().IDs()}
}

// Generate returns a unique ID derived from text.
func (h *HeadingIDs) Generate(text string) string {
	return string(h.ids.Generate([]byte(text), ast.KindHeading))
}
