package spaceup

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giladbarnea/spaceup/internal/pipeline"
)

// echoInline returns text unchanged so expected output stays readable.
type echoInline struct{}

func (echoInline) RenderInline(text string) (string, error) { return text, nil }
func (echoInline) RenderBlock(text string) (string, error) {
	return "<blockquote>" + text + "</blockquote>", nil
}

type failingInline struct{}

func (failingInline) RenderInline(string) (string, error) { return "", errors.New("boom") }
func (failingInline) RenderBlock(string) (string, error)  { return "", errors.New("boom") }

type stubHighlighter struct{}

func (stubHighlighter) Highlight(language, code string) (string, bool) {
	if language != "go" {
		return "", false
	}
	return "<pre class=\"chroma\">" + code + "</pre>", true
}

func renderEcho(t *testing.T, source string) string {
	t.Helper()
	r := &Renderer{Inline: echoInline{}}
	return r.Render(Parse(source))
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "empty document",
			source: "",
			want:   "",
		},
		{
			name:   "heading with paragraph",
			source: src("Title", "    Body"),
			want:   "<h1>Title</h1>\n<p>\n    Body<br>\n</p>",
		},
		{
			name:   "nested heading levels",
			source: src("A", "    B", "        text"),
			want:   "<h1>A</h1>\n<h2>B</h2>\n<p>\n    text<br>\n</p>",
		},
		{
			name:   "paragraph with inline comment",
			source: src("one // note", "two"),
			want:   "<p>\n    one  <!-- note --><br>\n    two<br>\n</p>",
		},
		{
			name:   "paragraph with remark between lines",
			source: src("one", "// aside", "two"),
			want:   "<p>\n    one<br>\n    <!-- aside -->\n    two<br>\n</p>",
		},
		{
			name:   "standalone comment",
			source: src("// top", "", "text"),
			want:   "<!-- top -->\n<p>\n    text<br>\n</p>",
		},
		{
			name:   "bullet list with checkboxes",
			source: src("- [ ] todo", "- [x] done", "- plain"),
			want: "<ul>\n" +
				`    <li><input type="checkbox" disabled> todo</li>` + "\n" +
				`    <li><input type="checkbox" checked disabled> done</li>` + "\n" +
				"    <li>plain</li>\n</ul>",
		},
		{
			name:   "ordered list",
			source: src("1. first", "2. second"),
			want:   "<ol>\n    <li>first</li>\n    <li>second</li>\n</ol>",
		},
		{
			name:   "blockquote delegated as block",
			source: src("> a", "> b"),
			want:   "<blockquote>> a\n> b</blockquote>",
		},
		{
			name:   "code block escaped",
			source: src("```html", "<b>&</b>", "```"),
			want:   `<pre><code class="language-html">&lt;b&gt;&amp;&lt;/b&gt;</code></pre>`,
		},
		{
			name:   "table",
			source: src("| a | b |", "|---|---|", "| 1 | <2> |"),
			want: "<table>\n<thead><tr>\n<th>a</th>\n<th>b</th>\n</tr></thead>\n<tbody>\n" +
				"<tr>\n<td>1</td>\n<td>&lt;2&gt;</td>\n</tr>\n</tbody>\n</table>",
		},
		{
			name:   "short table discarded",
			source: src("| a | b |", "|---|---|"),
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, renderEcho(t, tt.source))
		})
	}
}

func TestRenderer_BulletedParagraph(t *testing.T) {
	t.Parallel()

	doc := &Document{Nodes: []Node{&Paragraph{Lines: []ParagraphLine{
		{Content: "- [x] shipped", Comment: "dropped"},
		{Remark: &Comment{Text: "kept"}},
		{Content: "- next"},
	}}}}

	got := (&Renderer{Inline: echoInline{}}).Render(doc)

	want := "<ul>\n" +
		`    <li><input type="checkbox" checked disabled> shipped</li>` + "\n" +
		"    <!-- kept -->\n" +
		"    <li>next</li>\n</ul>"
	assert.Equal(t, want, got)
}

func TestRenderer_CommentTerminatorDefused(t *testing.T) {
	t.Parallel()

	doc := &Document{Nodes: []Node{&Comment{Text: "a --> b"}, &Comment{}}}
	got := (&Renderer{Inline: echoInline{}}).Render(doc)
	assert.Equal(t, "<!-- a --&gt; b -->", got)
}

func TestRenderer_InlineFailureEscapes(t *testing.T) {
	t.Parallel()

	got := (&Renderer{Inline: failingInline{}}).Render(Parse(src("a < b", "c", "", "> quote")))
	assert.Contains(t, got, "a &lt; b<br>")
	assert.Contains(t, got, "<blockquote>\n&gt; quote\n</blockquote>")
}

func TestRenderer_Highlighter(t *testing.T) {
	t.Parallel()

	r := &Renderer{Inline: echoInline{}, Highlighter: stubHighlighter{}}

	got := r.Render(Parse(src("```go", "x := 1", "```")))
	assert.Equal(t, `<pre class="chroma">x := 1</pre>`, got)

	got = r.Render(Parse(src("```zz", "x", "```")))
	assert.Equal(t, `<pre><code class="language-zz">x</code></pre>`, got)
}

func TestRenderer_HeadingIDs(t *testing.T) {
	t.Parallel()

	r := &Renderer{HeadingIDs: true}
	got := r.Render(Parse(src("Intro", "    a", "Intro", "    b")))

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)

	var ids []string
	dom.Find("h1").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		require.True(t, ok)
		ids = append(ids, id)
	})
	require.Len(t, ids, 2)
	assert.Equal(t, "intro", ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestRenderHTML_Goldmark(t *testing.T) {
	t.Parallel()

	source := src(
		"Guide",
		"    Some **bold**",
		"    and `code` // why",
		"",
		"    - [x] done",
		"    - [ ] todo",
		"",
		"    > quoted *text*",
	)
	got := RenderHTML(Parse(source))

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)

	assert.Equal(t, "Guide", dom.Find("h1").Text())
	assert.Equal(t, 1, dom.Find("p strong").Length())
	assert.Equal(t, "code", dom.Find("p code").Text())
	assert.Equal(t, 1, dom.Find("li input[checked]").Length())
	assert.Equal(t, 2, dom.Find("li input[type=checkbox]").Length())
	assert.Equal(t, 1, dom.Find("blockquote em").Length())
	assert.Contains(t, got, "<!-- why -->")
	assert.NotContains(t, got, "<p><strong>")
}

func TestRenderHTML_SingleParagraphPerRun(t *testing.T) {
	t.Parallel()

	got := RenderHTML(Parse(src("one", "// aside", "two // tail", "three")))

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, 1, dom.Find("p").Length())
	assert.Equal(t, 3, dom.Find("p br").Length())
	assert.Contains(t, got, "<!-- aside -->")
	assert.Contains(t, got, "<!-- tail -->")
}

func TestRenderHTML_HighlightMarks(t *testing.T) {
	t.Parallel()

	got := RenderHTML(Parse("a ==marked== word"))
	assert.Contains(t, got, "<mark>marked</mark>")
}

func TestRenderHTML_NilDocument(t *testing.T) {
	t.Parallel()
	assert.Empty(t, RenderHTML(nil))
}

func TestRenderer_ChromaHighlighter(t *testing.T) {
	t.Parallel()

	h, err := pipeline.NewCodeHighlighter("monokai")
	require.NoError(t, err)

	got := (&Renderer{Highlighter: h}).Render(Parse(src("```python", "def f(): pass", "```")))
	assert.Contains(t, got, `<pre class="chroma"><code class="language-python">`)
}

func TestRenderer_Deterministic(t *testing.T) {
	t.Parallel()

	source := src("A", "    text // c", "    B", "        - item", "| h |", "|---|", "| v |")
	doc := Parse(source)
	first := RenderHTML(doc)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, RenderHTML(doc))
		}()
	}
	wg.Wait()
}

func TestRenderer_DeepHeadingNotClamped(t *testing.T) {
	t.Parallel()

	doc := &Document{Nodes: []Node{&Heading{Level: 7, Content: "Deep"}}}
	got := (&Renderer{Inline: echoInline{}}).Render(doc)
	assert.Equal(t, "<h7>Deep</h7>", got)
}
