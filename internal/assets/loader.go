package assets

// DefaultStyleName is the built-in style used when none is chosen.
const DefaultStyleName = "default"

// PageTemplateName is the only template: the standalone page wrapper.
const PageTemplateName = "page"

// AssetLoader provides styles and the page template.
type AssetLoader interface {
	// LoadStyle returns the CSS of the named style.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns the named HTML template. Only PageTemplateName
	// exists.
	LoadTemplate(name string) (string, error)

	// StyleNames lists the styles LoadStyle accepts, sorted.
	StyleNames() []string
}

// Kind is a family of assets, stored under its own directory.
type Kind int

const (
	Style Kind = iota
	Template
)

func (k Kind) String() string {
	if k == Template {
		return "template"
	}
	return "style"
}

// dir is the directory holding k, relative to an asset root.
func (k Kind) dir() string {
	if k == Template {
		return "templates"
	}
	return "styles"
}

func (k Kind) ext() string {
	if k == Template {
		return ".html"
	}
	return ".css"
}

func (k Kind) notFound() error {
	if k == Template {
		return ErrTemplateNotFound
	}
	return ErrStyleNotFound
}

// file returns the slash-separated path of name relative to an asset root.
func (k Kind) file(name string) string {
	return k.dir() + "/" + name + k.ext()
}
