package pipeline

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SourceExtensions lists the file extensions of source documents. Links to
// them are pointed at the converted .html file.
var SourceExtensions = []string{".sup", ".spaceup"}

// RewriteRelativePaths fixes relative references in rendered HTML so they
// still resolve once the output lives somewhere else.
// If sourceDir is empty, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]: relative paths become absolute file:// URLs
//   - a[href]: relative links to source documents get the .html extension
//
// Absolute paths, anchors and URLs are left alone.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}
	if !strings.Contains(htmlContent, "<img") && !strings.Contains(htmlContent, "<a ") {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, absSourceDir)
	return renderHTML(doc, isFragment)
}

// parseHTML parses either a full document or a body fragment. Fragments are
// collected under a document node for uniform traversal.
func parseHTML(content string) (n *html.Node, isFragment bool, err error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, c := range nodes {
		container.AppendChild(c)
	}
	return container, true, nil
}

// renderHTML renders doc back to a string. Fragments render their children
// only, so no <html><body> wrapper is added.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and rewrites relative paths.
func rewriteNode(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteImageSrc(n, sourceDir)
		case atom.A:
			rewriteSourceLink(n)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, sourceDir)
	}
}

// rewriteImageSrc makes a relative img src an absolute file:// URL.
func rewriteImageSrc(n *html.Node, sourceDir string) {
	for i, attr := range n.Attr {
		if attr.Key != "src" || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(sourceDir, attr.Val)
		// Leave paths escaping sourceDir untouched.
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// rewriteSourceLink swaps a source document extension for .html, keeping any
// query or fragment.
func rewriteSourceLink(n *html.Node) {
	for i, attr := range n.Attr {
		if attr.Key != "href" || !isRelativePath(attr.Val) {
			continue
		}
		u, err := url.Parse(attr.Val)
		if err != nil || u.Scheme != "" {
			continue
		}
		ext := path.Ext(u.Path)
		if !IsSourceExtension(ext) {
			continue
		}
		u.Path = strings.TrimSuffix(u.Path, ext) + ".html"
		n.Attr[i].Val = u.String()
	}
}

// IsSourceExtension reports whether ext (with leading dot) names a source
// document.
func IsSourceExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// nonRelativePrefixes mark URLs, protocol-relative links and anchors.
var nonRelativePrefixes = []string{"http://", "https://", "file://", "data:", "mailto:", "//", "#"}

// isRelativePath reports whether ref is a relative filesystem reference.
func isRelativePath(ref string) bool {
	if ref == "" || filepath.IsAbs(ref) {
		return false
	}
	for _, prefix := range nonRelativePrefixes {
		if strings.HasPrefix(ref, prefix) {
			return false
		}
	}
	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	sep := string(filepath.Separator)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, sep) {
		cleanDir += sep
	}
	return strings.HasPrefix(filepath.Clean(absPath)+sep, cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
