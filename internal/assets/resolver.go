package assets

import (
	"errors"
	"slices"
)

// AssetResolver layers a custom asset directory over the built-in assets.
// A name missing from the directory falls through to the built-in set; any
// other failure is returned as is.
type AssetResolver struct {
	layers []AssetLoader // highest priority first
}

// NewAssetResolver creates a resolver over the built-in assets, with root
// layered on top when it is not empty.
func NewAssetResolver(root string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if root != "" {
		custom, err := NewFilesystemLoader(root)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// first returns the result of the first layer that has the asset.
func (r *AssetResolver) first(load func(AssetLoader) (string, error)) (string, error) {
	var err error
	for _, l := range r.layers {
		var content string
		content, err = load(l)
		if err == nil || !isNotFound(err) {
			return content, err
		}
	}
	return "", err
}

// StyleNames merges the style names of every layer.
func (r *AssetResolver) StyleNames() []string {
	var names []string
	for _, l := range r.layers {
		names = append(names, l.StyleNames()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
