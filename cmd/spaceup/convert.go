package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/dustin/go-humanize"

	"github.com/giladbarnea/spaceup"
	"github.com/giladbarnea/spaceup/internal/assets"
	"github.com/giladbarnea/spaceup/internal/config"
	"github.com/giladbarnea/spaceup/internal/dateutil"
	"github.com/giladbarnea/spaceup/internal/fileutil"
	"github.com/giladbarnea/spaceup/internal/hints"
)

// Sentinel errors for CLI I/O.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadSource    = errors.New("failed to read input")
	ErrWriteOutput   = errors.New("failed to write output")
	ErrNoSourceFiles = errors.New("no .sup or .spaceup files found")
)

// stdio names standard input or output in place of a path.
const stdio = "-"

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: convert takes one input, got %d", ErrUsage, len(positional))
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	// CLI flags win over config
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	conv, err := newConverter(cfg, env)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg.Input.DefaultDir, env)
	if err != nil {
		return err
	}

	date, err := dateutil.Resolve(cfg.Output.Date, env.Now())
	if err != nil {
		return fmt.Errorf("output date: %w", err)
	}

	params := &conversionParams{
		title:        flags.title,
		date:         date,
		standalone:   cfg.Output.Standalone,
		rewriteLinks: cfg.RewriteLinks,
		toc:          buildTOC(cfg),
		quiet:        flags.common.quiet,
		stdout:       env.Stdout,
	}

	if inputPath == stdio {
		return convertStdin(ctx, conv, flags.output, params, env)
	}

	files, err := discoverFiles(inputPath, resolveOutputDir(flags.output, cfg))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoSourceFiles, inputPath)
	}

	workers := resolveWorkers(cfg.Workers)
	env.logf(flags.common.verbose, "Converting %d file(s) with %d worker(s)", len(files), workers)
	start := env.Now()

	results := convertBatch(ctx, conv, workers, files, params)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	env.logf(flags.common.verbose, "Done in %s", env.Now().Sub(start).Round(time.Millisecond))
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", failed)
	}
	return nil
}

// loadConfig returns the named config, or a copy of the environment default
// when name is empty.
func loadConfig(name string, env *Environment) (*config.Config, error) {
	if name == "" {
		cfg := *env.Config
		return &cfg, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags overlays explicitly set flags onto cfg.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	mergeRenderFlags(&flags.render, cfg)

	if flags.style.style != "" {
		cfg.Style = flags.style.style
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}
	if flags.standalone {
		cfg.Output.Standalone = true
	}
	if flags.date != "" {
		cfg.Output.Date = flags.date
	}
	if flags.noLinks {
		cfg.RewriteLinks = false
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}

	if flags.toc.enabled || flags.toc.title != "" || flags.toc.minDepth != 0 || flags.toc.maxDepth != 0 {
		cfg.TOC.Enabled = true
	}
	if flags.toc.title != "" {
		cfg.TOC.Title = flags.toc.title
	}
	if flags.toc.minDepth != 0 {
		cfg.TOC.MinDepth = flags.toc.minDepth
	}
	if flags.toc.maxDepth != 0 {
		cfg.TOC.MaxDepth = flags.toc.maxDepth
	}
}

func mergeRenderFlags(flags *renderFlags, cfg *config.Config) {
	if flags.separators != "" {
		cfg.Separators = flags.separators
	}
	if flags.highlight != "" {
		cfg.Highlight = flags.highlight
	}
	if flags.rawHTML {
		cfg.RawHTML = true
	}
}

// newConverter builds a library converter from cfg.
// Style names without a custom asset path are resolved through the
// environment's asset loader.
func newConverter(cfg *config.Config, env *Environment) (*spaceup.Converter, error) {
	policy, err := spaceup.ParseSeparatorPolicy(cfg.Separators)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForSeparators())
	}

	opts := []spaceup.Option{spaceup.WithSeparatorPolicy(policy)}
	if cfg.RawHTML {
		opts = append(opts, spaceup.WithRawHTML())
	}
	if cfg.Highlight != "" {
		opts = append(opts, spaceup.WithHighlighting(cfg.Highlight))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, spaceup.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Style != "" {
		style, err := resolveStyle(cfg.Style, cfg.Assets.BasePath, env.AssetLoader)
		if err != nil {
			return nil, err
		}
		opts = append(opts, spaceup.WithStyle(style))
	}

	conv, err := spaceup.NewConverter(opts...)
	switch {
	case errors.Is(err, spaceup.ErrStyleNotFound):
		return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(styleNames(cfg.Assets.BasePath, env.AssetLoader)))
	case errors.Is(err, spaceup.ErrUnknownHighlightStyle):
		return nil, fmt.Errorf("%w%s", err, hints.ForHighlightStyle(styles.Names()))
	case err != nil:
		return nil, err
	}
	return conv, nil
}

// resolveStyle turns a style name into CSS content using loader. Paths, CSS
// content, and names under a custom asset path are left to the converter.
func resolveStyle(style, assetPath string, loader assets.AssetLoader) (string, error) {
	if assetPath != "" || loader == nil || fileutil.IsFilePath(style) || fileutil.IsCSS(style) {
		return style, nil
	}
	css, err := loader.LoadStyle(style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("%w: %q%s", spaceup.ErrStyleNotFound, style, hints.ForStyleNotFound(loader.StyleNames()))
		}
		return "", fmt.Errorf("loading style %q: %w", style, err)
	}
	return css, nil
}

// styleNames lists the styles available to --style, including those under a
// custom asset path.
func styleNames(assetPath string, loader assets.AssetLoader) []string {
	if assetPath != "" {
		if r, err := assets.NewAssetResolver(assetPath); err == nil {
			return r.StyleNames()
		}
	}
	if loader == nil {
		return nil
	}
	return loader.StyleNames()
}

// buildTOC converts the config TOC section, nil when disabled.
func buildTOC(cfg *config.Config) *spaceup.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}
	return &spaceup.TOC{
		Title:    cfg.TOC.Title,
		MinDepth: cfg.TOC.MinDepth,
		MaxDepth: cfg.TOC.MaxDepth,
	}
}

// resolveInputPath picks the input: the argument, the configured default
// directory, or piped stdin.
func resolveInputPath(args []string, defaultDir string, env *Environment) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if defaultDir != "" {
		return defaultDir, nil
	}
	if env.StdinIsTerminal != nil && !env.StdinIsTerminal() {
		return stdio, nil
	}
	return "", fmt.Errorf("%w%s", ErrNoInput, hints.ForNoInput())
}

// resolveOutputDir returns the output flag, else the configured default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// readSource reads a source file, or stdin for "-".
func readSource(path string, stdin io.Reader) (string, error) {
	var (
		content []byte
		err     error
	)
	if path == stdio && stdin != nil {
		content, err = io.ReadAll(io.LimitReader(stdin, spaceup.MaxSourceSize+1))
	} else {
		content, err = os.ReadFile(path) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	return string(content), nil
}

// convertStdin converts piped source, writing to stdout unless output names
// a file.
func convertStdin(ctx context.Context, conv CLIConverter, output string, params *conversionParams, env *Environment) error {
	source, err := readSource(stdio, env.Stdin)
	if err != nil {
		return err
	}

	input := spaceup.Input{
		Source:     source,
		Title:      params.title,
		Date:       params.date,
		TOC:        params.toc,
		Standalone: params.standalone,
	}
	if params.rewriteLinks {
		input.SourceDir = "."
	}

	result, err := conv.Convert(ctx, input)
	if err != nil {
		return err
	}

	if output == "" || output == stdio {
		_, err = env.Stdout.Write(result.HTML)
		return err
	}
	if !isHTMLPath(output) {
		return fmt.Errorf("%w: output for stdin must be - or a .html file, got %q", ErrUsage, output)
	}
	if err := fileutil.WriteFileAtomic(output, result.HTML); err != nil {
		return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if !params.quiet {
		fmt.Fprintf(env.Stdout, "Created %s (%s)\n", output, humanize.Bytes(uint64(len(result.HTML))))
	}
	return nil
}
