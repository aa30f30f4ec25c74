package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		input   string
		wantErr error
	}{
		{"built-in style", Style, DefaultStyleName, nil},
		{"custom style with separators", Style, "house_style-2", nil},
		{"mixed case style", Style, "Paper", nil},
		{"page template", Template, PageTemplateName, nil},
		{"longest style", Style, strings.Repeat("s", MaxNameLength), nil},

		{"empty style", Style, "", ErrInvalidAssetName},
		{"empty template", Template, "", ErrInvalidAssetName},
		{"style too long", Style, strings.Repeat("s", MaxNameLength+1), ErrInvalidAssetName},
		{"extension given", Style, "minimal.css", ErrInvalidAssetName},
		{"source extension", Template, "page.sup", ErrInvalidAssetName},
		{"traversal", Style, "../default", ErrInvalidAssetName},
		{"windows traversal", Style, `..\default`, ErrInvalidAssetName},
		{"nested", Style, "themes/dark", ErrInvalidAssetName},
		{"space", Style, "my style", ErrInvalidAssetName},
		{"non ascii", Style, "café", ErrInvalidAssetName},
		{"other template", Template, "cover", ErrTemplateNotFound},
		{"style named like page is fine", Style, PageTemplateName, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateName(tt.kind, tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateName(%v, %q) unexpected error: %v", tt.kind, tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateName(%v, %q) error = %v, want %v", tt.kind, tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName_MessageNamesKind(t *testing.T) {
	t.Parallel()

	err := ValidateName(Template, "")
	if err == nil || !strings.Contains(err.Error(), "template") {
		t.Errorf("ValidateName(Template, \"\") = %v, want message naming the template kind", err)
	}
	err = ValidateName(Style, "a.b")
	if err == nil || !strings.Contains(err.Error(), `style "a.b"`) {
		t.Errorf("ValidateName(Style, \"a.b\") = %v, want message quoting the style", err)
	}
}

func TestKind_File(t *testing.T) {
	t.Parallel()

	if got := Style.file("minimal"); got != "styles/minimal.css" {
		t.Errorf("Style.file = %q", got)
	}
	if got := Template.file(PageTemplateName); got != "templates/page.html" {
		t.Errorf("Template.file = %q", got)
	}
}
