package main

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const astSource = "Title\n    Body // note\n"

func TestRunAST(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "json default",
			args:         nil,
			wantContains: []string{`"type": "heading"`, `"content": "Title"`, `"comment": "note"`},
		},
		{
			name:         "yaml",
			args:         []string{"--format", "yaml"},
			wantContains: []string{"nodes:\n", "type: heading", "content: Title", "comment: note"},
			wantNot:      []string{"{"},
		},
		{
			name:         "mdast",
			args:         []string{"-f", "mdast"},
			wantContains: []string{`"type": "root"`, `"depth": 1`, `"value": "<!-- note -->"`},
		},
		{
			name:         "query over document",
			args:         []string{"--query", ".nodes[0].children[0].lines[0].content"},
			wantContains: []string{"\"Body\"\n"},
		},
		{
			name:         "query over mdast",
			args:         []string{"--format", "mdast", "--query", "[.children[].type]"},
			wantContains: []string{`["heading","paragraph"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(astSource)
			if err := runAST(context.Background(), tt.args, env.Environment); err != nil {
				t.Fatalf("runAST() error = %v", err)
			}

			got := env.stdout.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("output should not contain %q:\n%s", not, got)
				}
			}
		})
	}
}

func TestRunAST_FileInput(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"doc.sup": "one\n// cut\ntwo\n"})
	path := filepath.Join(dir, "doc.sup")

	blank := newTestEnv("")
	if err := runAST(context.Background(), []string{path}, blank.Environment); err != nil {
		t.Fatalf("runAST() error = %v", err)
	}
	comment := newTestEnv("")
	if err := runAST(context.Background(), []string{path, "--separators", "comment"}, comment.Environment); err != nil {
		t.Fatalf("runAST() error = %v", err)
	}

	var doc struct {
		Nodes []struct {
			Type string `json:"type"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(blank.stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Type != "paragraph" {
		t.Errorf("blank policy nodes = %+v, want one paragraph", doc.Nodes)
	}
	if !strings.Contains(comment.stdout.String(), `"type": "heading"`) {
		t.Errorf("comment policy should make a heading:\n%s", comment.stdout)
	}
}

func TestRunAST_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr error
	}{
		{"invalid format", astSource, []string{"--format", "xml"}, ErrInvalidFormat},
		{"invalid query", astSource, []string{"--query", ".nodes["}, ErrInvalidQuery},
		{"no input", "", nil, ErrNoInput},
		{"missing file", "", []string{"missing.sup"}, ErrReadSource},
		{"bad separators", astSource, []string{"--separators", "tabs"}, ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.stdin)
			err := runAST(context.Background(), tt.args, env.Environment)
			if tt.wantErr == ErrUsage {
				if exitCodeFor(err) != ExitUsage {
					t.Errorf("error = %v, want a usage error", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunQuery_RuntimeError(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	err := runQuery(&out, map[string]any{"a": "text"}, ".a + 1")
	if err == nil || !strings.Contains(err.Error(), "query error") {
		t.Errorf("error = %v, want query error", err)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"JSON", FormatJSON},
		{" yaml ", FormatYAML},
		{"mdast", FormatMdast},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
