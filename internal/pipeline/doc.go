// Package pipeline holds the stages around the block parser:
//   - source preprocessing (byte order mark, line endings)
//   - inline and block Markdown rendering via goldmark, including ==highlight==
//   - code highlighting via chroma
//   - heading anchor IDs
//   - CSS, table of contents and page template injection for standalone pages
//   - relative link rewriting
package pipeline
