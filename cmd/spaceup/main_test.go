package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/giladbarnea/spaceup/internal/assets"
	"github.com/giladbarnea/spaceup/internal/config"
)

// testEnv is an Environment writing to buffers. Stdin counts as piped when
// it is non-empty.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(stdin string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Now:             func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
			Stdin:           strings.NewReader(stdin),
			Stdout:          stdout,
			Stderr:          stderr,
			StdinIsTerminal: func() bool { return stdin == "" },
			AssetLoader:     assets.NewEmbeddedLoader(),
			Config:          config.DefaultConfig(),
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(b)
}

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "no arguments",
			args:       nil,
			wantCode:   ExitUsage,
			wantStderr: "Usage: spaceup <command>",
		},
		{
			name:       "version",
			args:       []string{"version"},
			wantCode:   ExitSuccess,
			wantStdout: "spaceup dev",
		},
		{
			name:       "help",
			args:       []string{"help"},
			wantCode:   ExitSuccess,
			wantStdout: "Commands:",
		},
		{
			name:       "help for convert",
			args:       []string{"help", "convert"},
			wantCode:   ExitSuccess,
			wantStdout: "--standalone",
		},
		{
			name:       "help flag on command",
			args:       []string{"ast", "--help"},
			wantCode:   ExitSuccess,
			wantStdout: "Usage: spaceup ast",
		},
		{
			name:       "help for unknown command",
			args:       []string{"help", "nope"},
			wantCode:   ExitUsage,
			wantStderr: "Unknown command: nope",
		},
		{
			name:       "unknown command",
			args:       []string{"render"},
			wantCode:   ExitUsage,
			wantStderr: `unknown command: "render"`,
		},
		{
			name:       "unknown flag",
			args:       []string{"convert", "--page-size", "a4"},
			wantCode:   ExitUsage,
			wantStderr: "invalid usage",
		},
		{
			name:       "missing source file is shorthand for convert",
			args:       []string{"missing.sup"},
			wantCode:   ExitIO,
			wantStderr: "missing.sup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, env.stdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, env.stderr)
			}
		})
	}
}

func TestRunMain_StdinShorthand(t *testing.T) {
	t.Parallel()

	env := newTestEnv("Title\n    Body\n")
	code := runMain([]string{"-"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
	}
	if !strings.Contains(env.stdout.String(), "<h1>Title</h1>") {
		t.Errorf("stdout = %q, want rendered heading", env.stdout)
	}
}

func TestSetMaxProcs_Verbose(t *testing.T) {
	var buf bytes.Buffer
	setMaxProcs([]string{"convert", "-v"}, &buf)

	if !strings.Contains(buf.String(), "maxprocs") {
		t.Errorf("verbose output = %q, want a maxprocs line", buf.String())
	}

	buf.Reset()
	setMaxProcs([]string{"convert"}, &buf)
	if buf.Len() != 0 {
		t.Errorf("quiet output = %q, want nothing", buf.String())
	}
}

func TestIsCommand(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"convert", "ast", "check", "version", "help", "completion"} {
		if !isCommand(c) {
			t.Errorf("isCommand(%q) = false", c)
		}
	}
	for _, c := range []string{"", "doc.sup", "-", "Convert"} {
		if isCommand(c) {
			t.Errorf("isCommand(%q) = true", c)
		}
	}
}
