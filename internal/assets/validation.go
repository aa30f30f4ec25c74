package assets

import "fmt"

// MaxNameLength bounds style and template names.
const MaxNameLength = 64

// ValidateName checks name before it becomes part of a path.
//
// Names are words of ASCII letters, digits, '-' and '_', so they can never
// carry a separator, a dot or an extension. Template names must also be
// PageTemplateName; any other template is reported as not found.
func ValidateName(kind Kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty %s name", ErrInvalidAssetName, kind)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: %s name longer than %d bytes", ErrInvalidAssetName, kind, MaxNameLength)
	}
	for i := range len(name) {
		if !isNameByte(name[i]) {
			return fmt.Errorf("%w: %s %q", ErrInvalidAssetName, kind, name)
		}
	}
	if kind == Template && name != PageTemplateName {
		return fmt.Errorf("%w: %q (only %q is used)", ErrTemplateNotFound, name, PageTemplateName)
	}
	return nil
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_'
}
