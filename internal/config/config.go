// Package config loads the YAML configuration of the command line tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/giladbarnea/spaceup/internal/fileutil"
	"github.com/giladbarnea/spaceup/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the per-user configuration directory.
const AppName = "spaceup"

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxStyleLength    = 4096 // a name, a path, or inline CSS
	MaxNameLength     = 64   // highlight style, separator policy
	MaxTOCTitleLength = 100
	MaxDateLength     = 100
)

// MaxWorkers caps the number of parallel conversions.
const MaxWorkers = 64

// Config holds the command line tool configuration.
type Config struct {
	Input        InputConfig  `yaml:"input"`
	Output       OutputConfig `yaml:"output"`
	Assets       AssetsConfig `yaml:"assets"`
	Style        string       `yaml:"style"`     // embedded style name, CSS file path or CSS; "" = none
	Highlight    string       `yaml:"highlight"` // chroma style name; "" = plain code blocks
	RawHTML      bool         `yaml:"rawHTML"`
	Separators   string       `yaml:"separators"` // "blank" or "comment"
	RewriteLinks bool         `yaml:"rewriteLinks"`
	TOC          TOCConfig    `yaml:"toc"`
	Workers      int          `yaml:"workers"` // 0 = from GOMAXPROCS
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // used when no input argument is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = beside the source
	Standalone bool   `yaml:"standalone"` // write full HTML pages
	Date       string `yaml:"date"`       // "today", "today:FORMAT" or a literal date
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`
	MinDepth int    `yaml:"minDepth"` // 1-6, default 1
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Separators:   "blank",
		RewriteLinks: true,
		TOC:          TOCConfig{MinDepth: 1, MaxDepth: 3},
	}
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.date", c.Output.Date, MaxDateLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"style", c.Style, MaxStyleLength},
		{"highlight", c.Highlight, MaxNameLength},
		{"separators", c.Separators, MaxNameLength},
		{"toc.title", c.TOC.Title, MaxTOCTitleLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Separators) {
	case "", "blank", "comment":
	default:
		return fmt.Errorf("%w: separators: %q (must be blank or comment)", ErrInvalidValue, c.Separators)
	}

	if c.TOC.Enabled {
		if c.TOC.MinDepth < 0 || c.TOC.MinDepth > 6 {
			return fmt.Errorf("%w: toc.minDepth: must be between 1 and 6, got %d", ErrInvalidValue, c.TOC.MinDepth)
		}
		if c.TOC.MaxDepth < 0 || c.TOC.MaxDepth > 6 {
			return fmt.Errorf("%w: toc.maxDepth: must be between 1 and 6, got %d", ErrInvalidValue, c.TOC.MaxDepth)
		}
		if c.TOC.MinDepth != 0 && c.TOC.MaxDepth != 0 && c.TOC.MinDepth > c.TOC.MaxDepth {
			return fmt.Errorf("%w: toc.minDepth (%d) exceeds toc.maxDepth (%d)", ErrInvalidValue, c.TOC.MinDepth, c.TOC.MaxDepth)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order: the working
// directory, then the user config directory, each as .yaml then .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
