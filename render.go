package spaceup

import (
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/giladbarnea/spaceup/internal/pipeline"
)

// InlineRenderer turns Markdown into HTML.
//
// RenderInline receives a single line of text and returns a fragment without
// an enclosing paragraph. RenderBlock receives the joined lines of a quoted
// block and returns structural HTML.
type InlineRenderer interface {
	RenderInline(text string) (string, error)
	RenderBlock(text string) (string, error)
}

// CodeHighlighter renders a code block. ok is false when the language is not
// supported, in which case plain escaped code is emitted.
type CodeHighlighter interface {
	Highlight(language, code string) (out string, ok bool)
}

// Renderer turns a Document into an HTML fragment.
// The zero value renders inline Markdown with goldmark and no highlighting.
// A Renderer holds no per-document state and may be shared between goroutines.
type Renderer struct {
	// Inline renders text spans and quoted blocks. Nil uses goldmark with GFM.
	Inline InlineRenderer

	// Highlighter renders code blocks that declare a language. Nil disables
	// highlighting.
	Highlighter CodeHighlighter

	// HeadingIDs adds unique id attributes to headings.
	HeadingIDs bool
}

var defaultInline = sync.OnceValue(func() InlineRenderer {
	return pipeline.NewGoldmarkRenderer()
})

// RenderHTML renders doc with the zero Renderer.
func RenderHTML(doc *Document) string {
	return (&Renderer{}).Render(doc)
}

// Render returns doc as HTML. Top-level blocks and the lines inside them are
// separated by newlines. Rendering never fails: a span the inline renderer
// rejects is emitted as escaped text.
func (r *Renderer) Render(doc *Document) string {
	if doc == nil {
		return ""
	}
	w := &htmlWriter{
		inline:      r.Inline,
		highlighter: r.Highlighter,
	}
	if w.inline == nil {
		w.inline = defaultInline()
	}
	if r.HeadingIDs {
		w.ids = pipeline.NewHeadingIDs()
	}
	w.nodes(doc.Nodes)
	return strings.Join(w.out, "\n")
}

// htmlWriter holds the output of one Render call.
type htmlWriter struct {
	inline      InlineRenderer
	highlighter CodeHighlighter
	ids         *pipeline.HeadingIDs
	out         []string
}

func (w *htmlWriter) emit(lines ...string) {
	w.out = append(w.out, lines...)
}

func (w *htmlWriter) nodes(nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Heading:
			w.heading(n)
		case *Paragraph:
			w.paragraph(n)
		case *List:
			w.list(n)
		case *Blockquote:
			w.blockquote(n)
		case *CodeBlock:
			w.codeBlock(n)
		case *Table:
			w.table(n)
		case *Comment:
			if n.Text != "" {
				w.emit(commentHTML(n.Text))
			}
		}
	}
}

// span renders inline Markdown, falling back to escaped text.
func (w *htmlWriter) span(text string) string {
	out, err := w.inline.RenderInline(text)
	if err != nil {
		return html.EscapeString(text)
	}
	return out
}

func (w *htmlWriter) heading(h *Heading) {
	level := strconv.Itoa(h.Level)
	open := "<h" + level
	if w.ids != nil {
		open += ` id="` + html.EscapeString(w.ids.Generate(h.Content)) + `"`
	}
	w.emit(open + ">" + w.span(h.Content) + "</h" + level + ">")
	w.nodes(h.Children)
}

func (w *htmlWriter) paragraph(p *Paragraph) {
	if isBulleted(p) {
		w.bulletedParagraph(p)
		return
	}
	w.emit("<p>")
	for _, l := range p.Lines {
		switch {
		case l.Remark != nil:
			if l.Remark.Text != "" {
				w.emit("    " + commentHTML(l.Remark.Text))
			}
		case l.Comment != "":
			w.emit("    " + w.span(l.Content) + "  " + commentHTML(l.Comment) + "<br>")
		default:
			w.emit("    " + w.span(l.Content) + "<br>")
		}
	}
	w.emit("</p>")
}

// isBulleted reports whether every text line of p starts with a list marker.
func isBulleted(p *Paragraph) bool {
	seen := false
	for _, l := range p.Lines {
		if l.Remark != nil {
			continue
		}
		if !strings.HasPrefix(l.Content, bulletMarker) {
			return false
		}
		seen = true
	}
	return seen
}

// bulletedParagraph renders a paragraph made only of "- " lines as a list.
// Inline comments on those lines are dropped.
func (w *htmlWriter) bulletedParagraph(p *Paragraph) {
	w.emit("<ul>")
	for _, l := range p.Lines {
		if l.Remark != nil {
			if l.Remark.Text != "" {
				w.emit("    " + commentHTML(l.Remark.Text))
			}
			continue
		}
		w.emit("    " + w.listItem(bulletItem(l.Content)))
	}
	w.emit("</ul>")
}

func (w *htmlWriter) list(l *List) {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	w.emit("<" + tag + ">")
	for _, item := range l.Items {
		w.emit("    " + w.listItem(item))
	}
	w.emit("</" + tag + ">")
}

func (w *htmlWriter) listItem(item ListItem) string {
	switch item.Checkbox {
	case CheckboxChecked:
		return `<li><input type="checkbox" checked disabled> ` + w.span(item.Text) + "</li>"
	case CheckboxUnchecked:
		return `<li><input type="checkbox" disabled> ` + w.span(item.Text) + "</li>"
	default:
		return "<li>" + w.span(item.Text) + "</li>"
	}
}

func (w *htmlWriter) blockquote(b *Blockquote) {
	if len(b.Lines) == 0 {
		return
	}
	text := strings.Join(b.Lines, "\n")
	out, err := w.inline.RenderBlock(text)
	if err != nil {
		w.emit("<blockquote>", html.EscapeString(text), "</blockquote>")
		return
	}
	w.emit(out)
}

func (w *htmlWriter) codeBlock(c *CodeBlock) {
	if len(c.Lines) == 0 {
		return
	}
	code := strings.Join(c.Lines, "\n")
	if w.highlighter != nil && c.Language != "" {
		if out, ok := w.highlighter.Highlight(c.Language, code); ok {
			w.emit(out)
			return
		}
	}
	w.emit(`<pre><code class="language-` + html.EscapeString(c.Language) + `">` +
		html.EscapeString(code) + "</code></pre>")
}

func (w *htmlWriter) table(t *Table) {
	w.emit("<table>", "<thead><tr>")
	for _, cell := range t.Header {
		w.emit("<th>" + html.EscapeString(cell) + "</th>")
	}
	w.emit("</tr></thead>", "<tbody>")
	for _, row := range t.Rows {
		w.emit("<tr>")
		for _, cell := range row {
			w.emit("<td>" + html.EscapeString(cell) + "</td>")
		}
		w.emit("</tr>")
	}
	w.emit("</tbody>", "</table>")
}

// commentHTML wraps text in an HTML comment. A "-->" inside text would end
// the comment early, so it is defused.
func commentHTML(text string) string {
	return "<!-- " + strings.ReplaceAll(text, "-->", "--&gt;") + " -->"
}
