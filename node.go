package spaceup

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the concrete type of a Node.
type Kind string

// Node kinds, also used as the "type" field of JSON dumps.
const (
	KindHeading    Kind = "heading"
	KindParagraph  Kind = "paragraph"
	KindList       Kind = "list"
	KindBlockquote Kind = "blockquote"
	KindCodeBlock  Kind = "code"
	KindTable      Kind = "table"
	KindComment    Kind = "comment"
)

// Node is a block of the document tree.
// Concrete types are *Heading, *Paragraph, *List, *Blockquote, *CodeBlock,
// *Table and *Comment.
type Node interface {
	Kind() Kind
}

// Document is the parsed form of a source file.
type Document struct {
	Nodes []Node `json:"nodes"`
}

// Heading is a line that owns the more deeply indented lines after it.
type Heading struct {
	Level    int    `json:"level"`
	Content  string `json:"content"`
	Children []Node `json:"children,omitempty"`
}

// ParagraphLine is one line of a paragraph.
// A line with a non-nil Remark stands for a comment-only source line that
// appeared inside the paragraph; its Content is empty.
type ParagraphLine struct {
	Content string   `json:"content,omitempty"`
	Comment string   `json:"comment,omitempty"`
	Remark  *Comment `json:"remark,omitempty"`
}

// Paragraph is a run of same-indent text lines.
type Paragraph struct {
	Lines []ParagraphLine `json:"lines"`
}

// Checkbox is the task state of an unordered list item.
type Checkbox int

// Checkbox states.
const (
	CheckboxNone Checkbox = iota
	CheckboxUnchecked
	CheckboxChecked
)

// String returns the checkbox state name.
func (c Checkbox) String() string {
	switch c {
	case CheckboxUnchecked:
		return "unchecked"
	case CheckboxChecked:
		return "checked"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Checkbox) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Checkbox) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "none":
		*c = CheckboxNone
	case "unchecked":
		*c = CheckboxUnchecked
	case "checked":
		*c = CheckboxChecked
	default:
		return fmt.Errorf("unknown checkbox state %q", b)
	}
	return nil
}

// ListItem is one entry of a List.
type ListItem struct {
	Text     string   `json:"text"`
	Checkbox Checkbox `json:"checkbox,omitempty"`
}

// List is a run of "- " or "N. " lines.
type List struct {
	Ordered bool       `json:"ordered"`
	Items   []ListItem `json:"items"`
}

// Blockquote holds "> " lines verbatim, markers included.
type Blockquote struct {
	Lines []string `json:"lines"`
}

// CodeBlock is a fenced block with its common indentation removed.
type CodeBlock struct {
	Language string   `json:"language,omitempty"`
	Lines    []string `json:"lines"`
}

// Table is a pipe table. The separator row is not kept.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Comment is a comment-only source line.
type Comment struct {
	Text string `json:"text"`
}

func (*Heading) Kind() Kind    { return KindHeading }
func (*Paragraph) Kind() Kind  { return KindParagraph }
func (*List) Kind() Kind       { return KindList }
func (*Blockquote) Kind() Kind { return KindBlockquote }
func (*CodeBlock) Kind() Kind  { return KindCodeBlock }
func (*Table) Kind() Kind      { return KindTable }
func (*Comment) Kind() Kind    { return KindComment }

// MarshalJSON adds the node kind as a "type" field.
func (h *Heading) MarshalJSON() ([]byte, error) {
	type plain Heading
	return marshalTyped(KindHeading, (*plain)(h))
}

// MarshalJSON adds the node kind as a "type" field.
func (p *Paragraph) MarshalJSON() ([]byte, error) {
	type plain Paragraph
	return marshalTyped(KindParagraph, (*plain)(p))
}

// MarshalJSON adds the node kind as a "type" field.
func (l *List) MarshalJSON() ([]byte, error) {
	type plain List
	return marshalTyped(KindList, (*plain)(l))
}

// MarshalJSON adds the node kind as a "type" field.
func (b *Blockquote) MarshalJSON() ([]byte, error) {
	type plain Blockquote
	return marshalTyped(KindBlockquote, (*plain)(b))
}

// MarshalJSON adds the node kind as a "type" field.
func (c *CodeBlock) MarshalJSON() ([]byte, error) {
	type plain CodeBlock
	return marshalTyped(KindCodeBlock, (*plain)(c))
}

// MarshalJSON adds the node kind as a "type" field.
func (t *Table) MarshalJSON() ([]byte, error) {
	type plain Table
	return marshalTyped(KindTable, (*plain)(t))
}

// MarshalJSON adds the node kind as a "type" field.
func (c *Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	return marshalTyped(KindComment, (*plain)(c))
}

// marshalTyped encodes v with a leading "type" member.
func marshalTyped(kind Kind, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head := []byte(`{"type":"` + string(kind) + `"`)
	if len(body) > 2 {
		head = append(head, ',')
	}
	return append(head, body[1:]...), nil
}

// Walk visits nodes depth-first in source order, descending into heading
// children. depth is 0 for the nodes passed in. Returning false from fn skips
// the children of that node.
func Walk(nodes []Node, fn func(n Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) {
	for _, n := range nodes {
		if !fn(n, depth) {
			continue
		}
		if h, ok := n.(*Heading); ok {
			walk(h.Children, depth+1, fn)
		}
	}
}

// Headings returns every heading of the document in source order.
func (d *Document) Headings() []*Heading {
	if d == nil {
		return nil
	}
	var out []*Heading
	Walk(d.Nodes, func(n Node, _ int) bool {
		if h, ok := n.(*Heading); ok {
			out = append(out, h)
		}
		return true
	})
	return out
}
