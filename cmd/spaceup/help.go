package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: spaceup <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert spaceup files to HTML")
	fmt.Fprintln(w, "  ast         Print the parsed document tree")
	fmt.Fprintln(w, "  check       Compare a rendering with expected HTML")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w, "  completion  Generate a shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'spaceup help <command>' for details on a specific command.")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --separators <s>      Visual break policy: blank (default), comment")
	fmt.Fprintln(w, "      --highlight <s>       Chroma style for fenced code (e.g. monokai)")
	fmt.Fprintln(w, "      --raw-html            Let inline HTML through")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: spaceup convert [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert .sup/.spaceup files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir or stdin is piped)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, directory, or - for stdout")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -s, --standalone          Write complete HTML pages")
	fmt.Fprintln(w, "      --title <s>           Page title (default: first heading)")
	fmt.Fprintln(w, "      --date <s>            Page date: today, today:FORMAT, or literal text")
	fmt.Fprintln(w, "      --no-rewrite-links    Keep relative links and images as written")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file path, or CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding built-in styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                 Insert a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       TOC heading text")
	fmt.Fprintln(w, "      --toc-min-depth <n>   Min heading depth (1-6)")
	fmt.Fprintln(w, "      --toc-max-depth <n>   Max heading depth (1-6)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printASTUsage prints usage for the ast command.
func printASTUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: spaceup ast [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the parsed document tree of a file or stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --format <s>          json (default), yaml, or mdast")
	fmt.Fprintln(w, "      --query <jq>          Filter the JSON form with a jq expression")
	fmt.Fprintln(w, "      --separators <s>      Visual break policy: blank (default), comment")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: spaceup check <input> <expected.html> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render input and compare it with expected HTML, ignoring whitespace")
	fmt.Fprintln(w, "and attribute order. Exits with status 4 on the first difference.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --ignore-attributes   Compare element structure and text only")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "ast":
		printASTUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: spaceup version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: spaceup help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	case "completion":
		printCompletionUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
