package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/giladbarnea/spaceup"
	"github.com/giladbarnea/spaceup/internal/hints"
	"github.com/giladbarnea/spaceup/internal/yamlutil"
)

// Sentinel errors for the ast command.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidQuery  = errors.New("invalid --query")
)

// Format is an ast output format.
type Format string

// Supported ast output formats.
const (
	FormatJSON  Format = "json"  // document tree as JSON
	FormatYAML  Format = "yaml"  // document tree as YAML
	FormatMdast Format = "mdast" // mdast tree as JSON
)

// ParseFormat converts a string to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatMdast:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (must be json, yaml or mdast)", ErrInvalidFormat, s)
	}
}

// runAST prints the parsed tree of one input.
func runAST(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseASTFlags(args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: ast takes one input, got %d", ErrUsage, len(positional))
	}

	format, err := ParseFormat(flags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	if flags.separators != "" {
		cfg.Separators = flags.separators
	}
	policy, err := spaceup.ParseSeparatorPolicy(cfg.Separators)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForSeparators())
	}

	inputPath, err := resolveInputPath(positional, "", env)
	if err != nil {
		return err
	}
	source, err := readSource(inputPath, env.Stdin)
	if err != nil {
		return err
	}

	conv, err := spaceup.NewConverter(spaceup.WithSeparatorPolicy(policy))
	if err != nil {
		return err
	}
	doc := conv.Parse(ctx, source)

	var tree any = doc
	if format == FormatMdast {
		tree = spaceup.ToMdast(doc)
	}

	if flags.query != "" {
		return runQuery(env.Stdout, tree, flags.query)
	}
	return writeTree(env.Stdout, tree, format)
}

func writeTree(w io.Writer, tree any, format Format) error {
	if format == FormatYAML {
		// YAML keys follow the JSON form, node types included.
		generic, err := toGeneric(tree)
		if err != nil {
			return err
		}
		out, err := yamlutil.Dump(generic)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(tree)
}

// runQuery applies a jq expression to the JSON form of tree, writing one
// compact JSON value per result.
func runQuery(w io.Writer, tree any, query string) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	data, err := toGeneric(tree)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}

// toGeneric round-trips v through JSON into maps and slices, the value
// shapes gojq and the YAML encoder work on.
func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tree: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding tree: %w", err)
	}
	return out, nil
}
