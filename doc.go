// Package spaceup parses and renders spaceup, a markup language where
// indentation alone gives a document its structure.
//
// A line followed by more deeply indented lines is a heading; its level is
// its nesting depth. Everything else is Markdown-flavoured block content:
// paragraphs, lists, blockquotes, fenced code and pipe tables. Comments
// start with "//" and survive into the HTML as <!-- --> comments.
//
// # Quick Start
//
// Parse and render in one step:
//
//	doc := spaceup.Parse("Title\n    Some *text*.\n")
//	fmt.Println(spaceup.RenderHTML(doc))
//
// Parsing and rendering never fail. Malformed input degrades to text.
//
// # Conversion Pipeline
//
// Converter adds the surrounding steps used by the command line tool:
//
//  1. Source normalisation (BOM, line endings)
//  2. Block parsing into a Document
//  3. HTML rendering, inline spans via goldmark (GFM, ==highlight==)
//  4. Relative link rewriting (.sup links become .html, images become file:// URLs)
//  5. Optional TOC, standalone page and CSS injection
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := spaceup.NewConverter(
//	    spaceup.WithStyle("default"),
//	    spaceup.WithHighlighting("monokai"),
//	    spaceup.WithSeparatorPolicy(spaceup.SeparatorComment),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, spaceup.Input{
//	    Source:     content,
//	    SourceDir:  "/path/to/notes",
//	    TOC:        &spaceup.TOC{Title: "Contents"},
//	    Standalone: true,
//	})
//
// # Other Outputs
//
// Documents marshal to JSON with a "type" field on every node, and ToMdast
// converts them to an mdast tree for the unified/remark ecosystem.
package spaceup
