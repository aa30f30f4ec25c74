// Package htmlnorm compares HTML by structure rather than by bytes.
//
// Both sides are parsed with golang.org/x/net/html and reduced to a canonical
// tree: elements keep their name, sorted attributes and children; text and
// comments have their whitespace collapsed; whitespace-only text and empty
// comments disappear. Two documents are equal when their trees are.
package htmlnorm

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node kinds for non-element nodes.
const (
	TextNode    = "#text"
	CommentNode = "#comment"
)

// ErrParse is returned when content cannot be parsed as HTML.
var ErrParse = errors.New("htmlnorm: parse failed")

// Attr is a single attribute of a canonical element.
type Attr struct {
	Key, Val string
}

// Node is a canonical HTML node. Name is the element name, or TextNode or
// CommentNode, in which case Text holds the collapsed content.
type Node struct {
	Name     string
	Text     string
	Attrs    []Attr
	Children []*Node
}

type options struct {
	ignoreAttrs bool
	skip        map[string]bool
}

// Option configures canonicalisation.
type Option func(*options)

// IgnoreAttributes drops all attributes, comparing element structure and
// text only.
func IgnoreAttributes() Option {
	return func(o *options) { o.ignoreAttrs = true }
}

// IgnoreElements drops the named elements and their content from both sides.
func IgnoreElements(names ...string) Option {
	return func(o *options) {
		if o.skip == nil {
			o.skip = make(map[string]bool, len(names))
		}
		for _, n := range names {
			o.skip[strings.ToLower(n)] = true
		}
	}
}

// Parse canonicalises content. Full documents (starting with a doctype or
// <html>) are parsed as such; anything else is parsed as a body fragment.
func Parse(content string, opts ...Option) ([]*Node, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var out []*Node
	for _, n := range raw {
		out = canonical(n, &o, out)
	}
	return out, nil
}

func parse(content string) ([]*html.Node, error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		if err != nil {
			return nil, err
		}
		return []*html.Node{doc}, nil
	}
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	return html.ParseFragment(strings.NewReader(content), body)
}

// canonical appends the canonical form of n to out. Document nodes are
// transparent; doctypes and blank text vanish.
func canonical(n *html.Node, o *options, out []*Node) []*Node {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			out = canonical(c, o, out)
		}
	case html.TextNode:
		if text := collapse(n.Data); text != "" {
			out = append(out, &Node{Name: TextNode, Text: text})
		}
	case html.CommentNode:
		if text := collapse(n.Data); text != "" {
			out = append(out, &Node{Name: CommentNode, Text: text})
		}
	case html.ElementNode:
		if o.skip[n.Data] {
			return out
		}
		el := &Node{Name: n.Data}
		if !o.ignoreAttrs {
			for _, a := range n.Attr {
				el.Attrs = append(el.Attrs, Attr{Key: a.Key, Val: collapse(a.Val)})
			}
			slices.SortFunc(el.Attrs, func(a, b Attr) int { return strings.Compare(a.Key, b.Key) })
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			el.Children = canonical(c, o, el.Children)
		}
		out = append(out, el)
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Equal reports whether a and b have the same canonical structure.
func Equal(a, b string, opts ...Option) (bool, error) {
	d, err := Diff(a, b, opts...)
	return d == "", err
}

// Diff compares want and got and describes the first difference, or returns
// "" when they are structurally equal.
func Diff(want, got string, opts ...Option) (string, error) {
	w, err := Parse(want, opts...)
	if err != nil {
		return "", fmt.Errorf("expected: %w", err)
	}
	g, err := Parse(got, opts...)
	if err != nil {
		return "", fmt.Errorf("actual: %w", err)
	}
	return diffNodes("", w, g), nil
}

func diffNodes(path string, want, got []*Node) string {
	for i := range min(len(want), len(got)) {
		if d := diffNode(childPath(path, want[i], i), want[i], got[i]); d != "" {
			return d
		}
	}
	switch {
	case len(want) > len(got):
		return fmt.Sprintf("%s: missing %s", orRoot(path), want[len(got)])
	case len(got) > len(want):
		return fmt.Sprintf("%s: unexpected %s", orRoot(path), got[len(want)])
	}
	return ""
}

func diffNode(path string, want, got *Node) string {
	if want.Name != got.Name {
		return fmt.Sprintf("%s: want %s, got %s", path, want, got)
	}
	if want.Text != got.Text {
		return fmt.Sprintf("%s: want %q, got %q", path, want.Text, got.Text)
	}
	if !slices.Equal(want.Attrs, got.Attrs) {
		return fmt.Sprintf("%s: want attributes %s, got %s", path, attrString(want.Attrs), attrString(got.Attrs))
	}
	return diffNodes(path, want.Children, got.Children)
}

func childPath(parent string, n *Node, i int) string {
	seg := fmt.Sprintf("%s[%d]", n.Name, i)
	if parent == "" {
		return seg
	}
	return parent + " > " + seg
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

// String renders n compactly for difference reports.
func (n *Node) String() string {
	switch n.Name {
	case TextNode:
		return fmt.Sprintf("text %q", n.Text)
	case CommentNode:
		return fmt.Sprintf("comment %q", n.Text)
	}
	if len(n.Attrs) == 0 {
		return "<" + n.Name + ">"
	}
	return "<" + n.Name + " " + attrString(n.Attrs) + ">"
}

func attrString(attrs []Attr) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = fmt.Sprintf("%s=%q", a.Key, a.Val)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
