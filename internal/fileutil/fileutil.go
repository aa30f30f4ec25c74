// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/giladbarnea/spaceup/internal/pipeline"
)

// OutputExtension is the extension of converted documents.
const OutputExtension = ".html"

// Sentinel errors for file utility operations.
var (
	ErrOutsideRoot = errors.New("path is outside the input root")
)

// IsSourceFile reports whether path has a source document extension.
func IsSourceFile(path string) bool {
	return pipeline.IsSourceExtension(filepath.Ext(path))
}

// OutputPath derives where the converted form of src is written.
//
// With an empty outDir the .html file sits beside src. Otherwise src's
// location relative to root is recreated under outDir, so converting a tree
// keeps its layout.
func OutputPath(src, root, outDir string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + OutputExtension
	if outDir == "" {
		return filepath.Join(filepath.Dir(src), name), nil
	}
	if root == "" {
		return filepath.Join(outDir, name), nil
	}

	rel, err := filepath.Rel(root, filepath.Dir(src))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutsideRoot, src, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, src)
	}
	return filepath.Join(outDir, rel, name), nil
}

// WriteFileAtomic writes content to path through a temporary file in the
// same directory, so readers never observe a partial file. Parent
// directories are created as needed.
func WriteFileAtomic(path string, content []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".spaceup-*"+OutputExtension)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- output is a public document
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "minimal" -> false (name)
//   - "./custom.css" -> true (relative path)
//   - "/absolute/path.css" -> true (absolute)
//   - "C:\windows\path.css" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if s looks like inline CSS rather than a name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}
