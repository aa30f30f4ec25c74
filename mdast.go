package spaceup

import "strings"

// MdastNode is a node of an mdast (Markdown abstract syntax tree) document.
// Only the fields the node type uses are set.
type MdastNode struct {
	Type     string         `json:"type" yaml:"type"`
	Value    string         `json:"value,omitempty" yaml:"value,omitempty"`
	Depth    int            `json:"depth,omitempty" yaml:"depth,omitempty"`
	Ordered  *bool          `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	Spread   *bool          `json:"spread,omitempty" yaml:"spread,omitempty"`
	Checked  *bool          `json:"checked,omitempty" yaml:"checked,omitempty"`
	Lang     string         `json:"lang,omitempty" yaml:"lang,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Children []*MdastNode   `json:"children,omitempty" yaml:"children,omitempty"`
}

// maxMdastDepth is the deepest heading mdast can express.
const maxMdastDepth = 6

// ToMdast converts doc into an mdast root. Inline Markdown is kept as plain
// text; comments become html nodes. Heading children follow their heading as
// siblings, since mdast sections are flat.
func ToMdast(doc *Document) *MdastNode {
	root := &MdastNode{Type: "root"}
	if doc != nil {
		root.Children = mdastNodes(doc.Nodes, nil)
	}
	return root
}

func mdastNodes(nodes []Node, out []*MdastNode) []*MdastNode {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Heading:
			out = append(out, mdastHeading(n))
			out = mdastNodes(n.Children, out)
		case *Paragraph:
			out = append(out, mdastParagraph(n))
		case *List:
			out = append(out, mdastList(n))
		case *Blockquote:
			out = append(out, mdastBlockquote(n))
		case *CodeBlock:
			if len(n.Lines) > 0 {
				out = append(out, &MdastNode{Type: "code", Lang: n.Language, Value: strings.Join(n.Lines, "\n")})
			}
		case *Table:
			out = append(out, mdastTable(n))
		case *Comment:
			if n.Text != "" {
				out = append(out, mdastComment(n.Text))
			}
		}
	}
	return out
}

func mdastText(text string) []*MdastNode {
	if text == "" {
		return nil
	}
	return []*MdastNode{{Type: "text", Value: text}}
}

func mdastComment(text string) *MdastNode {
	return &MdastNode{Type: "html", Value: commentHTML(text)}
}

func mdastHeading(h *Heading) *MdastNode {
	node := &MdastNode{
		Type:     "heading",
		Depth:    min(max(h.Level, 1), maxMdastDepth),
		Children: mdastText(h.Content),
	}
	if h.Level > maxMdastDepth {
		node.Data = map[string]any{"spaceupHeadingLevel": h.Level}
	}
	return node
}

func mdastParagraph(p *Paragraph) *MdastNode {
	if isBulleted(p) {
		return mdastBulletedParagraph(p)
	}

	node := &MdastNode{Type: "paragraph"}
	for i, l := range p.Lines {
		if l.Remark != nil {
			if l.Remark.Text != "" {
				node.Children = append(node.Children, mdastComment(l.Remark.Text))
			}
			continue
		}
		node.Children = append(node.Children, mdastText(l.Content)...)
		if l.Comment != "" {
			node.Children = append(node.Children, mdastComment(l.Comment))
		}
		if i < len(p.Lines)-1 {
			node.Children = append(node.Children, &MdastNode{Type: "break"})
		}
	}
	return node
}

// mdastBulletedParagraph keeps inline comments, unlike the HTML rendering.
func mdastBulletedParagraph(p *Paragraph) *MdastNode {
	list := &MdastNode{Type: "list", Ordered: ptr(false), Spread: ptr(false)}
	for _, l := range p.Lines {
		if l.Remark != nil {
			continue
		}
		item := mdastItem(bulletItem(l.Content))
		if l.Comment != "" {
			para := item.Children[0]
			para.Children = append(para.Children, mdastComment(l.Comment))
		}
		list.Children = append(list.Children, item)
	}
	return list
}

func mdastList(l *List) *MdastNode {
	list := &MdastNode{Type: "list", Ordered: ptr(l.Ordered), Spread: ptr(false)}
	for _, item := range l.Items {
		list.Children = append(list.Children, mdastItem(item))
	}
	return list
}

func mdastItem(item ListItem) *MdastNode {
	node := &MdastNode{
		Type:     "listItem",
		Spread:   ptr(false),
		Children: []*MdastNode{{Type: "paragraph", Children: mdastText(item.Text)}},
	}
	if item.Checkbox != CheckboxNone {
		node.Checked = ptr(item.Checkbox == CheckboxChecked)
	}
	return node
}

func mdastBlockquote(b *Blockquote) *MdastNode {
	lines := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = strings.TrimPrefix(strings.TrimPrefix(l, ">"), " ")
	}
	return &MdastNode{
		Type:     "blockquote",
		Children: []*MdastNode{{Type: "paragraph", Children: mdastText(strings.Join(lines, "\n"))}},
	}
}

func mdastTable(t *Table) *MdastNode {
	table := &MdastNode{Type: "table"}
	table.Children = append(table.Children, mdastRow(t.Header))
	for _, r := range t.Rows {
		table.Children = append(table.Children, mdastRow(r))
	}
	return table
}

func mdastRow(cells []string) *MdastNode {
	row := &MdastNode{Type: "tableRow"}
	for _, c := range cells {
		row.Children = append(row.Children, &MdastNode{Type: "tableCell", Children: mdastText(c)})
	}
	return row
}

func ptr[T any](v T) *T { return &v }
