package spaceup

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"

	"github.com/giladbarnea/spaceup/internal/assets"
	"github.com/giladbarnea/spaceup/internal/fileutil"
	"github.com/giladbarnea/spaceup/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.SourcePreprocessor = (*pipeline.SourceNormalizer)(nil)
	_ pipeline.MarkdownRenderer   = (*pipeline.GoldmarkRenderer)(nil)
	_ pipeline.CSSInjector        = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector        = (*pipeline.TOCInjection)(nil)
	_ pipeline.PageWrapper        = (*pipeline.PageTemplate)(nil)
	_ InlineRenderer              = (*pipeline.GoldmarkRenderer)(nil)
	_ CodeHighlighter             = (*pipeline.CodeHighlighter)(nil)
)

// Converter runs the source-to-HTML pipeline: normalise, parse, render,
// rewrite links, then optionally add a TOC, wrap into a page and inject CSS.
// Create with NewConverter. A Converter is safe for concurrent use.
type Converter struct {
	cfg          converterConfig
	assetLoader  assets.AssetLoader
	preprocessor pipeline.SourcePreprocessor
	parser       Parser
	renderer     Renderer
	cssInjector  pipeline.CSSInjector
	tocInjector  pipeline.TOCInjector
	page         pipeline.PageWrapper
}

// NewConverter creates a Converter.
// Returns error if an asset path, style or highlight style cannot be resolved.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.SourceNormalizer{},
		cssInjector:  &pipeline.CSSInjection{},
		tocInjector:  pipeline.NewTOCInjection(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}
	if err := c.buildRenderer(); err != nil {
		return nil, err
	}
	c.parser = Parser{Separators: c.cfg.separators}

	tmpl, err := c.assetLoader.LoadTemplate(assets.PageTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	if c.page, err = pipeline.NewPageTemplate(tmpl); err != nil {
		return nil, fmt.Errorf("initializing page template: %w", err)
	}

	return c, nil
}

// buildRenderer wires the inline renderer and the code highlighter.
// The highlighter stylesheet is appended to the resolved style.
func (c *Converter) buildRenderer() error {
	var gmOpts []pipeline.GoldmarkOption
	if c.cfg.rawHTML {
		gmOpts = append(gmOpts, pipeline.WithUnsafeHTML())
	}

	if c.cfg.highlightStyle != "" {
		h, err := pipeline.NewCodeHighlighter(c.cfg.highlightStyle)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, c.cfg.highlightStyle)
		}
		css, err := h.CSS()
		if err != nil {
			return err
		}
		c.cfg.resolvedStyle += css
		c.renderer.Highlighter = h
		gmOpts = append(gmOpts, pipeline.WithBlockHighlighting(h.StyleName()))
	}

	c.renderer.Inline = c.cfg.inline
	if c.renderer.Inline == nil {
		c.renderer.Inline = pipeline.NewGoldmarkRenderer(gmOpts...)
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, input)
		}
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// Parse normalises source and parses it with the converter's separator policy.
func (c *Converter) Parse(ctx context.Context, source string) *Document {
	return c.parser.Parse(c.preprocessor.PreprocessSource(ctx, source))
}

// Convert runs the full pipeline and returns the parsed document and its HTML.
// The context is checked between stages.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	doc := c.Parse(ctx, input.Source)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r := c.renderer
	r.HeadingIDs = input.TOC != nil
	htmlContent := r.Render(doc)

	if input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	// Before wrapping, so the TOC lands at the top of the body.
	htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent, toTOCData(input.TOC))
	if err != nil {
		return nil, fmt.Errorf("injecting TOC: %w", err)
	}

	if input.Standalone {
		htmlContent, err = c.page.WrapPage(ctx, pipeline.PageData{
			Title: c.title(input, doc),
			Date:  input.Date,
			Body:  template.HTML(htmlContent), // #nosec G203 -- rendered by this package
		})
		if err != nil {
			return nil, fmt.Errorf("wrapping page: %w", err)
		}
	}

	// Converter style first, user CSS last so it can override.
	cssContent := c.cfg.resolvedStyle
	if cssContent != "" && input.CSS != "" {
		cssContent += "\n"
	}
	cssContent += input.CSS
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &ConvertResult{Document: doc, HTML: []byte(htmlContent)}, nil
}

// title returns the page title: the explicit one, else the plain text of the
// first heading.
func (c *Converter) title(input Input, doc *Document) string {
	if input.Title != "" {
		return input.Title
	}
	headings := doc.Headings()
	if len(headings) == 0 {
		return ""
	}
	out, err := c.renderer.Inline.RenderInline(headings[0].Content)
	if err != nil {
		return headings[0].Content
	}
	return pipeline.PlainText(out)
}

// validateInput checks the input before any work is done.
func validateInput(input Input) error {
	if len(input.Source) > MaxSourceSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrSourceTooLarge, len(input.Source), MaxSourceSize)
	}
	return input.TOC.Validate()
}

// toTOCData converts the public TOC type to internal pipeline.TOCData.
func toTOCData(t *TOC) *pipeline.TOCData {
	if t == nil {
		return nil
	}
	minDepth, maxDepth := t.depths()
	return &pipeline.TOCData{
		Title:    t.Title,
		MinDepth: minDepth,
		MaxDepth: maxDepth,
	}
}
