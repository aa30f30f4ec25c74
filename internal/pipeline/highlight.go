package pipeline

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownHighlightStyle indicates the chroma style name is not registered.
var ErrUnknownHighlightStyle = errors.New("unknown highlight style")

// CodeHighlighter renders code blocks with chroma using CSS classes.
// It is safe for concurrent use.
type CodeHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter

	mu     sync.RWMutex
	lexers map[string]chroma.Lexer
}

// NewCodeHighlighter creates a highlighter for a registered chroma style.
func NewCodeHighlighter(styleName string) (*CodeHighlighter, error) {
	style, ok := styles.Registry[strings.ToLower(styleName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, styleName)
	}
	return &CodeHighlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		lexers: make(map[string]chroma.Lexer),
	}, nil
}

// StyleName returns the chroma style in use.
func (h *CodeHighlighter) StyleName() string {
	return h.style.Name
}

// Highlight renders code in language as a <pre class="chroma"> block.
// ok is false when no lexer matches language; callers then render plain text.
func (h *CodeHighlighter) Highlight(language, code string) (out string, ok bool) {
	lexer := h.lexer(language)
	if lexer == nil {
		return "", false
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf strings.Builder
	buf.WriteString(`<pre class="chroma"><code class="language-`)
	buf.WriteString(html.EscapeString(language))
	buf.WriteString(`">`)
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", false
	}
	buf.WriteString(`</code></pre>`)
	return buf.String(), true
}

// CSS returns the stylesheet for the classes Highlight emits.
func (h *CodeHighlighter) CSS() (string, error) {
	var buf strings.Builder
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

func (h *CodeHighlighter) lexer(language string) chroma.Lexer {
	if language == "" {
		return nil
	}

	h.mu.RLock()
	lexer, cached := h.lexers[language]
	h.mu.RUnlock()
	if cached {
		return lexer
	}

	lexer = lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Match("file." + language)
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}

	h.mu.Lock()
	h.lexers[language] = lexer
	h.mu.Unlock()
	return lexer
}
