package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCodeHighlighter(t *testing.T) {
	t.Parallel()

	h, err := NewCodeHighlighter("Monokai")
	if err != nil {
		t.Fatalf("NewCodeHighlighter() error = %v", err)
	}
	if h.StyleName() != "monokai" {
		t.Errorf("StyleName() = %q, want monokai", h.StyleName())
	}

	_, err = NewCodeHighlighter("no-such-style")
	if !errors.Is(err, ErrUnknownHighlightStyle) {
		t.Errorf("NewCodeHighlighter() error = %v, want ErrUnknownHighlightStyle", err)
	}
}

func TestCodeHighlighter_Highlight(t *testing.T) {
	t.Parallel()

	h, err := NewCodeHighlighter("github")
	if err != nil {
		t.Fatalf("NewCodeHighlighter() error = %v", err)
	}

	tests := []struct {
		name         string
		language     string
		code         string
		wantOK       bool
		wantContains []string
	}{
		{
			name:     "known language",
			language: "python",
			code:     "def f():\n    return 1",
			wantOK:   true,
			wantContains: []string{
				`<pre class="chroma"><code class="language-python">`,
				`<span class="k`,
				`</code></pre>`,
			},
		},
		{
			name:         "escapes markup",
			language:     "go",
			code:         `s := "<b>"`,
			wantOK:       true,
			wantContains: []string{"&lt;b&gt;"},
		},
		{name: "unknown language", language: "not-a-language", code: "x", wantOK: false},
		{name: "no language", language: "", code: "x", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := h.Highlight(tt.language, tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Highlight() ok = %v, want %v", ok, tt.wantOK)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Highlight() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestCodeHighlighter_CSS(t *testing.T) {
	t.Parallel()

	h, err := NewCodeHighlighter("monokai")
	if err != nil {
		t.Fatalf("NewCodeHighlighter() error = %v", err)
	}
	css, err := h.CSS()
	if err != nil {
		t.Fatalf("CSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS() should style .chroma classes, got %q", css)
	}
}
