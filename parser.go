package spaceup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/giladbarnea/spaceup/internal/scan"
)

// SeparatorPolicy selects which kind of non-content line marks a visual break
// between two lines at the same indentation.
type SeparatorPolicy int

const (
	// SeparatorBlank treats blank lines as breaks. Comment-only lines are
	// transparent: they neither make the line before them a heading nor end
	// a paragraph.
	SeparatorBlank SeparatorPolicy = iota

	// SeparatorComment treats comment-only lines as breaks and ignores blank
	// lines when deciding headings. A comment-only line ends a paragraph.
	SeparatorComment
)

// String returns the policy name used in configuration files.
func (s SeparatorPolicy) String() string {
	switch s {
	case SeparatorBlank:
		return "blank"
	case SeparatorComment:
		return "comment"
	default:
		return fmt.Sprintf("SeparatorPolicy(%d)", int(s))
	}
}

// ParseSeparatorPolicy converts a configuration value to a SeparatorPolicy.
// The empty string selects SeparatorBlank.
func ParseSeparatorPolicy(s string) (SeparatorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blank":
		return SeparatorBlank, nil
	case "comment":
		return SeparatorComment, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be blank or comment)", ErrInvalidSeparatorPolicy, s)
	}
}

// Parser turns source text into a Document.
// The zero value is ready to use. A Parser holds no state between calls and
// may be used from several goroutines.
type Parser struct {
	Separators SeparatorPolicy
}

// Parse parses source with the default separator policy.
func Parse(source string) *Document {
	return Parser{}.Parse(source)
}

// Parse parses source. It never fails: malformed constructs degrade to text,
// short tables are dropped and unterminated fences run to the end of input.
func (p Parser) Parse(source string) *Document {
	bp := &blockParser{
		lines:   scan.Lines(source),
		indents: []int{0},
		policy:  p.Separators,
	}
	return &Document{Nodes: bp.parseBlock(0)}
}

var orderedItem = regexp.MustCompile(`^\d+\.\s(.*)$`)

const bulletMarker = "- "

// blockParser is the cursor state of a single parse.
type blockParser struct {
	lines      []string
	pos        int
	indents    []int // indentation of each open heading; len is the next heading level
	prevIndent int   // indentation of the last content line handled
	policy     SeparatorPolicy
}

// lookahead describes what follows the line under the cursor.
type lookahead struct {
	indent    int  // indentation of the next content line, -1 if none
	separated bool // a separator line comes before it
	fence     bool // the next content line opens a code block
}

// parseBlock consumes lines at indentation cur or deeper.
// It returns, leaving the line unconsumed, at the first shallower content line.
func (p *blockParser) parseBlock(cur int) []Node {
	var nodes []Node
	for p.pos < len(p.lines) {
		nodes = p.skipNonContent(nodes)
		if p.pos >= len(p.lines) {
			break
		}

		line := p.lines[p.pos]
		indent, ok := scan.Indent(line)
		if !ok {
			p.pos++
			continue
		}
		if indent < cur {
			break
		}

		content, comment, _ := scan.SplitComment(line)
		if content == "" {
			p.pos++
			continue
		}

		if scan.IsFence(content) {
			nodes = append(nodes, p.codeBlock(content, indent))
			p.prevIndent = indent
			continue
		}

		next := p.peek()
		ambiguous := p.prevIndent > indent && next.indent == indent && !next.separated
		isHeading := next.indent > indent ||
			(next.indent == indent && next.separated) ||
			ambiguous ||
			next.fence ||
			(next.indent == -1 && p.pos < len(p.lines)-1)

		if isHeading {
			nodes = append(nodes, p.heading(content, indent, ambiguous))
			continue
		}
		if n := p.run(content, comment, indent); n != nil {
			nodes = append(nodes, n)
		}
		p.prevIndent = indent
	}
	return nodes
}

// skipNonContent advances past blank lines, turning comment-only lines into
// Comment nodes.
func (p *blockParser) skipNonContent(nodes []Node) []Node {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if scan.IsBlank(line) {
			p.pos++
			continue
		}
		text, ok := scan.CommentOnly(line)
		if !ok {
			break
		}
		nodes = append(nodes, &Comment{Text: text})
		p.pos++
	}
	return nodes
}

func (p *blockParser) peek() lookahead {
	la := lookahead{indent: -1}
	for i := p.pos + 1; i < len(p.lines); i++ {
		line := p.lines[i]
		if scan.IsBlank(line) {
			if p.policy == SeparatorBlank {
				la.separated = true
			}
			continue
		}
		if _, ok := scan.CommentOnly(line); ok {
			if p.policy == SeparatorComment {
				la.separated = true
			}
			continue
		}
		la.indent, _ = scan.Indent(line)
		la.fence = scan.IsFence(line)
		break
	}
	return la
}

func (p *blockParser) heading(content string, indent int, ambiguous bool) *Heading {
	h := &Heading{Level: len(p.indents), Content: content}
	p.prevIndent = indent
	p.indents = append(p.indents, indent)
	p.pos++

	// Lines directly below an ambiguous heading at its own indentation become
	// its first paragraph instead of siblings.
	if ambiguous {
		if para := p.paragraph(indent, nil); para != nil {
			h.Children = append(h.Children, para)
		}
	}
	h.Children = append(h.Children, p.parseBlock(indent+1)...)
	p.indents = p.indents[:len(p.indents)-1]
	return h
}

// run dispatches a same-indent run starting at the cursor. It returns nil for
// runs that produce nothing.
func (p *blockParser) run(content, comment string, indent int) Node {
	switch {
	case strings.HasPrefix(content, bulletMarker):
		return p.bulletList(content, indent)
	case orderedItem.MatchString(content):
		return p.orderedList(content, indent)
	case strings.HasPrefix(content, "> "):
		return p.blockquote(content, indent)
	case isTableRow(content):
		return p.table(content, indent)
	default:
		p.pos++
		p.prevIndent = indent
		if para := p.paragraph(indent, []ParagraphLine{{Content: content, Comment: comment}}); para != nil {
			return para
		}
		return nil
	}
}

// nextContent returns the payload of the line under the cursor if it is a
// content line at exactly indent.
func (p *blockParser) nextContent(indent int) (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	n, ok := scan.Indent(p.lines[p.pos])
	if !ok || n != indent {
		return "", false
	}
	content, _, _ := scan.SplitComment(p.lines[p.pos])
	return content, true
}

// collect consumes the line under the cursor and every following same-indent
// line accepted by match, returning their payloads.
func (p *blockParser) collect(first string, indent int, match func(string) bool) []string {
	out := []string{first}
	p.pos++
	for {
		next, ok := p.nextContent(indent)
		if !ok || !match(next) {
			return out
		}
		out = append(out, next)
		p.pos++
	}
}

func (p *blockParser) bulletList(first string, indent int) *List {
	raw := p.collect(first, indent, func(s string) bool {
		return strings.HasPrefix(s, bulletMarker)
	})
	l := &List{Items: make([]ListItem, 0, len(raw))}
	for _, r := range raw {
		l.Items = append(l.Items, bulletItem(r))
	}
	return l
}

func bulletItem(content string) ListItem {
	text := strings.TrimSpace(strings.TrimPrefix(content, bulletMarker))
	if rest, ok := strings.CutPrefix(text, "[ ] "); ok {
		return ListItem{Text: strings.TrimSpace(rest), Checkbox: CheckboxUnchecked}
	}
	if rest, ok := strings.CutPrefix(text, "[x] "); ok {
		return ListItem{Text: strings.TrimSpace(rest), Checkbox: CheckboxChecked}
	}
	return ListItem{Text: text}
}

func (p *blockParser) orderedList(first string, indent int) *List {
	raw := p.collect(first, indent, orderedItem.MatchString)
	l := &List{Ordered: true, Items: make([]ListItem, 0, len(raw))}
	for _, r := range raw {
		m := orderedItem.FindStringSubmatch(r)
		l.Items = append(l.Items, ListItem{Text: strings.TrimSpace(m[1])})
	}
	return l
}

func (p *blockParser) blockquote(first string, indent int) *Blockquote {
	lines := p.collect(first, indent, func(s string) bool {
		return strings.HasPrefix(s, "> ")
	})
	return &Blockquote{Lines: lines}
}

func isTableRow(s string) bool {
	return strings.HasPrefix(s, "|") && strings.Contains(s[1:], "|")
}

// table returns nil when fewer than three rows were collected; the rows are
// consumed either way.
func (p *blockParser) table(first string, indent int) Node {
	rows := p.collect(first, indent, isTableRow)
	if len(rows) < 3 {
		return nil
	}
	t := &Table{Header: tableCells(rows[0])}
	for _, r := range rows[2:] {
		t.Rows = append(t.Rows, tableCells(r))
	}
	return t
}

// tableCells splits a pipe row. Cells are read up to the first empty one, so a
// trailing pipe ends the row.
func tableCells(row string) []string {
	parts := strings.Split(row, "|")[1:]
	cells := make([]string, 0, len(parts))
	for _, c := range parts {
		if c == "" {
			break
		}
		cells = append(cells, strings.TrimSpace(c))
	}
	return cells
}

// codeBlock consumes a fenced block opened by the line under the cursor.
// Each line loses up to the fence's own indentation, then the smallest
// indentation left among non-blank lines.
func (p *blockParser) codeBlock(content string, indent int) *CodeBlock {
	cb := &CodeBlock{Language: scan.FenceLanguage(content)}
	p.pos++
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		if scan.IsFence(line) {
			break
		}
		cb.Lines = append(cb.Lines, scan.StripIndent(line, indent))
	}

	minIndent := -1
	for _, l := range cb.Lines {
		if scan.IsBlank(l) {
			continue
		}
		if n := scan.LeadingSpace(l); minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent > 0 {
		for i, l := range cb.Lines {
			cb.Lines[i] = scan.StripIndent(l, minIndent)
		}
	}
	return cb
}

// paragraph accumulates same-indent lines after lines, stopping at a blank
// line, an indentation change, or a separator.
func (p *blockParser) paragraph(indent int, lines []ParagraphLine) *Paragraph {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if n, ok := scan.Indent(line); ok {
			if n != indent {
				break
			}
			content, comment, _ := scan.SplitComment(line)
			p.pos++
			if content == "" {
				continue
			}
			lines = append(lines, ParagraphLine{Content: content, Comment: comment})
			p.prevIndent = indent
			continue
		}
		if p.policy == SeparatorComment || scan.IsBlank(line) {
			break
		}
		remarks, ok := p.remarks(indent)
		if !ok {
			break
		}
		lines = append(lines, remarks...)
	}
	if len(lines) == 0 {
		return nil
	}
	return &Paragraph{Lines: lines}
}

// remarks consumes a run of comment-only lines when a content line at indent
// follows it directly. Otherwise nothing is consumed.
func (p *blockParser) remarks(indent int) ([]ParagraphLine, bool) {
	var out []ParagraphLine
	i := p.pos
	for ; i < len(p.lines); i++ {
		text, ok := scan.CommentOnly(p.lines[i])
		if !ok {
			break
		}
		out = append(out, ParagraphLine{Remark: &Comment{Text: text}})
	}
	if i >= len(p.lines) {
		return nil, false
	}
	if n, ok := scan.Indent(p.lines[i]); !ok || n != indent {
		return nil, false
	}
	p.pos = i
	return out, true
}
