package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/giladbarnea/spaceup"
	"github.com/giladbarnea/spaceup/internal/hints"
	"github.com/giladbarnea/spaceup/internal/htmlnorm"
)

// ErrMismatch is returned when a rendering differs from the expected HTML.
var ErrMismatch = errors.New("rendering does not match expected HTML")

// runCheck renders one input as a fragment and compares it structurally with
// an expected HTML file.
func runCheck(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCheckFlags(args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: check takes <input> <expected.html>, got %d argument(s)", ErrUsage, len(positional))
	}
	inputPath, expectedPath := positional[0], positional[1]

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeRenderFlags(&flags.render, cfg)
	// Fragments only: no injected stylesheet.
	cfg.Style = ""
	cfg.Assets.BasePath = ""

	conv, err := newConverter(cfg, env)
	if err != nil {
		return err
	}

	source, err := readSource(inputPath, env.Stdin)
	if err != nil {
		return err
	}
	expected, err := os.ReadFile(expectedPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadSource, err)
	}

	result, err := conv.Convert(ctx, spaceup.Input{Source: source})
	if err != nil {
		return err
	}

	// Highlighting adds a stylesheet the expected fragment does not carry.
	opts := []htmlnorm.Option{htmlnorm.IgnoreElements("style")}
	if flags.ignoreAttrs {
		opts = append(opts, htmlnorm.IgnoreAttributes())
	}
	diff, err := htmlnorm.Diff(string(expected), string(result.HTML), opts...)
	if err != nil {
		return err
	}
	if diff != "" {
		return fmt.Errorf("%w: %s%s", ErrMismatch, diff, hints.ForMismatch(inputPath))
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "OK %s\n", inputPath)
	}
	return nil
}
