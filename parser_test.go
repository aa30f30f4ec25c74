package spaceup

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// src joins lines with newlines and adds a final newline.
func src(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func para(lines ...string) *Paragraph {
	p := &Paragraph{}
	for _, l := range lines {
		p.Lines = append(p.Lines, ParagraphLine{Content: l})
	}
	return p
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []Node
	}{
		{
			name:   "empty input",
			source: "",
			want:   nil,
		},
		{
			name:   "single line is a paragraph",
			source: "Just text",
			want:   []Node{para("Just text")},
		},
		{
			name:   "heading owns indented paragraph",
			source: src("Title", "    Body line one.", "    Body line two."),
			want: []Node{
				&Heading{Level: 1, Content: "Title", Children: []Node{
					para("Body line one.", "Body line two."),
				}},
			},
		},
		{
			name:   "same indent lines form one paragraph",
			source: src("one", "two", "three"),
			want:   []Node{para("one", "two", "three")},
		},
		{
			name:   "blank line makes the line before it a heading",
			source: src("Alone", "", "After"),
			want: []Node{
				&Heading{Level: 1, Content: "Alone"},
				para("After"),
			},
		},
		{
			name: "two indentation levels",
			source: src(
				"Recipe",
				"  Ingredients",
				"     Flour",
				"     Eggs",
				"  Steps",
				"     Mix.",
			),
			want: []Node{
				&Heading{Level: 1, Content: "Recipe", Children: []Node{
					&Heading{Level: 2, Content: "Ingredients", Children: []Node{para("Flour", "Eggs")}},
					&Heading{Level: 2, Content: "Steps", Children: []Node{para("Mix.")}},
				}},
			},
		},
		{
			name:   "unambiguous decrease returns to outer level",
			source: src("A", "    a body", "", "B", "    b body"),
			want: []Node{
				&Heading{Level: 1, Content: "A", Children: []Node{para("a body")}},
				&Heading{Level: 1, Content: "B", Children: []Node{para("b body")}},
			},
		},
		{
			name:   "ambiguous decrease keeps following line as first paragraph",
			source: src("A", "  B", "C", "D"),
			want: []Node{
				&Heading{Level: 1, Content: "A", Children: []Node{para("B")}},
				&Heading{Level: 1, Content: "C", Children: []Node{para("D")}},
			},
		},
		{
			name:   "ambiguous decrease with deeper content after",
			source: src("A", "  B", "C", "D", "  E"),
			want: []Node{
				&Heading{Level: 1, Content: "A", Children: []Node{para("B")}},
				&Heading{Level: 1, Content: "C", Children: []Node{
					para("D"),
					para("E"),
				}},
			},
		},
		{
			name:   "inline comment split from paragraph line",
			source: src("Title", "  Mix well. // slowly"),
			want: []Node{
				&Heading{Level: 1, Content: "Title", Children: []Node{
					&Paragraph{Lines: []ParagraphLine{{Content: "Mix well.", Comment: "slowly"}}},
				}},
			},
		},
		{
			name:   "inline comment dropped from heading",
			source: src("Title // draft", "  body"),
			want: []Node{
				&Heading{Level: 1, Content: "Title", Children: []Node{para("body")}},
			},
		},
		{
			name:   "comment between same indent lines stays in paragraph",
			source: src("first", "// between", "second"),
			want: []Node{
				&Paragraph{Lines: []ParagraphLine{
					{Content: "first"},
					{Remark: &Comment{Text: "between"}},
					{Content: "second"},
				}},
			},
		},
		{
			name:   "comment after paragraph end is a sibling",
			source: src("Title", "  body", "// note", "Next"),
			want: []Node{
				&Heading{Level: 1, Content: "Title", Children: []Node{
					para("body"),
					&Comment{Text: "note"},
				}},
				para("Next"),
			},
		},
		{
			name:   "leading comments become nodes",
			source: src("// header", "//", "text"),
			want: []Node{
				&Comment{Text: "header"},
				&Comment{Text: ""},
				para("text"),
			},
		},
		{
			name:   "unordered list with checkboxes",
			source: src("Todo", "  - [x] done", "  - [ ] todo", "  - plain // dropped"),
			want: []Node{
				&Heading{Level: 1, Content: "Todo", Children: []Node{
					&List{Items: []ListItem{
						{Text: "done", Checkbox: CheckboxChecked},
						{Text: "todo", Checkbox: CheckboxUnchecked},
						{Text: "plain"},
					}},
				}},
			},
		},
		{
			name:   "ordered list",
			source: src("Steps", "  1. first", "  2. second", "  10. tenth"),
			want: []Node{
				&Heading{Level: 1, Content: "Steps", Children: []Node{
					&List{Ordered: true, Items: []ListItem{
						{Text: "first"}, {Text: "second"}, {Text: "tenth"},
					}},
				}},
			},
		},
		{
			name:   "list run ends at non item line",
			source: src("Items", "  - a", "  - b", "  after"),
			want: []Node{
				&Heading{Level: 1, Content: "Items", Children: []Node{
					&List{Items: []ListItem{{Text: "a"}, {Text: "b"}}},
					para("after"),
				}},
			},
		},
		{
			name:   "blockquote keeps markers",
			source: src("Quote", "  > one", "  > two"),
			want: []Node{
				&Heading{Level: 1, Content: "Quote", Children: []Node{
					&Blockquote{Lines: []string{"> one", "> two"}},
				}},
			},
		},
		{
			name:   "table",
			source: src("Data", "  | Name | Qty |", "  |------|-----|", "  | Egg  | 2   |", "  | Milk | 1   |"),
			want: []Node{
				&Heading{Level: 1, Content: "Data", Children: []Node{
					&Table{
						Header: []string{"Name", "Qty"},
						Rows:   [][]string{{"Egg", "2"}, {"Milk", "1"}},
					},
				}},
			},
		},
		{
			name:   "short table is discarded",
			source: src("| a | b |", "|---|---|"),
			want:   nil,
		},
		{
			name:   "short table leaves no heading children",
			source: src("Data", "  | a | b |", "  |---|---|"),
			want:   []Node{&Heading{Level: 1, Content: "Data"}},
		},
		{
			name:   "code fence dedents by fence indent then common indent",
			source: src("Code", "    ```python", "        def f():", "            return 1", "    ```"),
			want: []Node{
				&Heading{Level: 1, Content: "Code", Children: []Node{
					&CodeBlock{Language: "python", Lines: []string{"def f():", "    return 1"}},
				}},
			},
		},
		{
			name:   "code fence keeps list and quote lines verbatim",
			source: src("Code", "  ```", "  - not a list", "  > not a quote", "  ```"),
			want: []Node{
				&Heading{Level: 1, Content: "Code", Children: []Node{
					&CodeBlock{Lines: []string{"- not a list", "> not a quote"}},
				}},
			},
		},
		{
			name:   "unterminated fence runs to end of input",
			source: src("```go", "x := 1", "y := 2"),
			want: []Node{
				&CodeBlock{Language: "go", Lines: []string{"x := 1", "y := 2"}},
			},
		},
		{
			name:   "empty fence",
			source: src("```", "```"),
			want:   []Node{&CodeBlock{}},
		},
		{
			name:   "line followed by fence at same indent is a heading",
			source: src("Intro", "```", "code", "```"),
			want: []Node{
				&Heading{Level: 1, Content: "Intro"},
				&CodeBlock{Lines: []string{"code"}},
			},
		},
		{
			name:   "url is not a comment",
			source: src("see https://example.com/x"),
			want:   []Node{para("see https://example.com/x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := Parse(tt.source)
			require.NotNil(t, doc)
			assert.Equal(t, tt.want, doc.Nodes)
		})
	}
}

func TestParse_CommentSeparatorPolicy(t *testing.T) {
	t.Parallel()

	p := Parser{Separators: SeparatorComment}

	t.Run("comment line makes the line before it a heading", func(t *testing.T) {
		t.Parallel()
		doc := p.Parse(src("first", "// between", "second"))
		assert.Equal(t, []Node{
			&Heading{Level: 1, Content: "first", Children: []Node{&Comment{Text: "between"}}},
			para("second"),
		}, doc.Nodes)
	})

	t.Run("blank line does not separate", func(t *testing.T) {
		t.Parallel()
		doc := p.Parse(src("first", "", "second"))
		assert.Equal(t, []Node{para("first"), para("second")}, doc.Nodes)
	})

	t.Run("comment ends paragraph", func(t *testing.T) {
		t.Parallel()
		doc := p.Parse(src("Title", "  a", "  b", "  // stop", "  c"))
		require.Len(t, doc.Nodes, 1)
		h := doc.Nodes[0].(*Heading)
		assert.Equal(t, []Node{para("a", "b"), &Comment{Text: "stop"}, para("c")}, h.Children)
	})
}

// An isolated last content line becomes a heading when only non-content
// lines follow it.
func TestParse_TrailingLineBeforeNonContent(t *testing.T) {
	t.Parallel()

	withTail := Parse(src("Intro", "    body", "Outro", "// end"))
	assert.Equal(t, []Node{
		&Heading{Level: 1, Content: "Intro", Children: []Node{para("body")}},
		&Heading{Level: 1, Content: "Outro", Children: []Node{&Comment{Text: "end"}}},
	}, withTail.Nodes)

	withoutTail := Parse(src("Intro", "    body", "Outro"))
	assert.Equal(t, []Node{
		&Heading{Level: 1, Content: "Intro", Children: []Node{para("body")}},
		para("Outro"),
	}, withoutTail.Nodes)

	blankTail := Parse("Intro\n    body\nOutro\n\n")
	require.Len(t, blankTail.Nodes, 2)
	assert.Equal(t, KindHeading, blankTail.Nodes[1].Kind())
}

func TestParse_LevelEqualsDepth(t *testing.T) {
	t.Parallel()

	source := src(
		"a",
		"   b",
		"         c",
		"             d",
		"                text",
		"   e",
		"      text",
		"f",
		"  g",
		"   text",
	)
	doc := Parse(source)

	count := 0
	Walk(doc.Nodes, func(n Node, depth int) bool {
		if h, ok := n.(*Heading); ok {
			count++
			assert.Equal(t, depth+1, h.Level, "heading %q", h.Content)
		}
		return true
	})
	assert.Equal(t, 7, count)
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	source := src("A", "  - [x] one", "  | h |", "  |---|", "  | c |", "B // c", "  > q", "```", "x", "```")
	first, err := json.Marshal(Parse(source))
	require.NoError(t, err)
	second, err := json.Marshal(Parse(source))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestParse_Concurrent(t *testing.T) {
	t.Parallel()

	source := src("Title", "  body", "  - item")
	want := Parse(source)
	done := make(chan *Document)
	for range 8 {
		go func() { done <- Parse(source) }()
	}
	for range 8 {
		assert.Equal(t, want, <-done)
	}
}

func TestParseSeparatorPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		want     SeparatorPolicy
		wantName string
		wantErr  bool
	}{
		{in: "", want: SeparatorBlank, wantName: "blank"},
		{in: "blank", want: SeparatorBlank, wantName: "blank"},
		{in: " Comment ", want: SeparatorComment, wantName: "comment"},
		{in: "newline", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSeparatorPolicy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeparatorPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantName, got.String())
		})
	}
}

func TestDocument_MarshalJSON(t *testing.T) {
	t.Parallel()

	doc := Parse(src("Title", "  - [x] done"))
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[{"type":"heading","level":1,"content":"Title","children":[
		{"type":"list","ordered":false,"items":[{"text":"done","checkbox":"checked"}]}]}]}`, string(data))
}

func TestParse_UppercaseCheckboxIsText(t *testing.T) {
	t.Parallel()

	doc := Parse("- [X] shout")
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, &List{Items: []ListItem{{Text: "[X] shout"}}}, doc.Nodes[0])
}

func TestListItem_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	list := Parse(src("- [x] done", "- [ ] todo", "- plain")).Nodes[0].(*List)
	data, err := json.Marshal(list)
	require.NoError(t, err)

	var decoded struct {
		Items []ListItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, list.Items, decoded.Items)

	var item ListItem
	err = json.Unmarshal([]byte(`{"text":"x","checkbox":"maybe"}`), &item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown checkbox state "maybe"`)
}

func TestParse_AmbiguousHeadingAbsorbsFence(t *testing.T) {
	t.Parallel()

	// The line after an ambiguous decrease always opens a paragraph, even
	// when it is a fence.
	doc := Parse(src("A", "  B", "C", "```go", "x", "```"))
	want := []Node{
		&Heading{Level: 1, Content: "A", Children: []Node{para("B")}},
		&Heading{Level: 1, Content: "C", Children: []Node{para("```go", "x", "```")}},
	}
	assert.Equal(t, want, doc.Nodes)
}
