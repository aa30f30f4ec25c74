package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that shape parsing and rendering.
type renderFlags struct {
	separators string
	highlight  string
	rawHTML    bool
}

// styleFlags holds flags selecting the injected CSS.
type styleFlags struct {
	style     string
	assetPath string
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	render     renderFlags
	style      styleFlags
	toc        tocFlags
	output     string
	workers    int
	standalone bool
	title      string
	date       string
	noLinks    bool
}

// astFlags holds flags for the ast command.
type astFlags struct {
	common     commonFlags
	format     string
	query      string
	separators string
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common      commonFlags
	render      renderFlags
	ignoreAttrs bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds parsing and rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.separators, "separators", "", "visual break policy: blank, comment")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code blocks")
	fs.BoolVar(&f.rawHTML, "raw-html", false, "let inline HTML through")
}

// addStyleFlags adds CSS selection flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name, file path or content")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding built-in styles and templates")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 1)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 3)")
}

// newFlagSet creates a quiet FlagSet; usage is printed by the help command.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return fs.Args(), nil
}

// convertFlagSet registers the convert command flags.
func convertFlagSet() (*flag.FlagSet, *convertFlags) {
	fs := newFlagSet("convert")
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (- for stdout)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "write complete HTML pages")
	fs.StringVar(&f.title, "title", "", "page title (default: first heading)")
	fs.StringVar(&f.date, "date", "", "page date: today, today:FORMAT or literal text")
	fs.BoolVar(&f.noLinks, "no-rewrite-links", false, "keep relative links and images as written")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addStyleFlags(fs, &f.style)
	addTOCFlags(fs, &f.toc)
	return fs, f
}

// astFlagSet registers the ast command flags.
func astFlagSet() (*flag.FlagSet, *astFlags) {
	fs := newFlagSet("ast")
	f := &astFlags{}

	fs.StringVarP(&f.format, "format", "f", "json", "output format: json, yaml, mdast")
	fs.StringVar(&f.query, "query", "", "jq expression applied to the JSON form")
	fs.StringVar(&f.separators, "separators", "", "visual break policy: blank, comment")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// checkFlagSet registers the check command flags.
func checkFlagSet() (*flag.FlagSet, *checkFlags) {
	fs := newFlagSet("check")
	f := &checkFlags{}

	fs.BoolVar(&f.ignoreAttrs, "ignore-attributes", false, "compare element structure and text only")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	return fs, f
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs, f := convertFlagSet()
	positional, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parseASTFlags parses ast command flags and returns positional args.
func parseASTFlags(args []string) (*astFlags, []string, error) {
	fs, f := astFlagSet()
	positional, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string) (*checkFlags, []string, error) {
	fs, f := checkFlagSet()
	positional, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}
