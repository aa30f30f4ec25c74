package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader serves assets from a user directory laid out like the
// built-in set: styles/{name}.css and templates/page.html.
type FilesystemLoader struct {
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader opens root as an asset directory.
// Returns ErrInvalidBasePath unless root is a readable directory.
func NewFilesystemLoader(root string) (*FilesystemLoader, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	_, err = os.ReadDir(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, abs)
	case err != nil:
		// ReadDir on a regular file fails too.
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBasePath, abs, err)
	}

	return &FilesystemLoader{root: abs}, nil
}

func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load(Style, name)
}

func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load(Template, name)
}

func (f *FilesystemLoader) load(kind Kind, name string) (string, error) {
	if err := ValidateName(kind, name); err != nil {
		return "", err
	}

	p, err := f.contained(filepath.Join(f.root, filepath.FromSlash(kind.file(name))))
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(p) // #nosec G304 -- name validated, path contained
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q in %s", kind.notFound(), name, f.root)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// StyleNames lists the styles present in the directory. A missing styles/
// directory yields none.
func (f *FilesystemLoader) StyleNames() []string {
	names, err := styleNames(os.DirFS(f.root))
	if err != nil {
		return nil
	}
	return names
}

// contained resolves symlinks in p and rejects results outside the root.
// A path that does not exist is returned as is; reading it fails later.
func (f *FilesystemLoader) contained(p string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	if !strings.HasPrefix(p, f.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, p)
	}
	return p, nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
