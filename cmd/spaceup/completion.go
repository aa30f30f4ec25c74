package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
)

// Shell is a shell completion scripts are generated for.
type Shell string

// Supported shells.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

var shells = []string{string(ShellBash), string(ShellZsh), string(ShellFish)}

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType is how a flag's value is completed.
type flagType int

const (
	flagString flagType = iota
	flagBool
	flagInt
	flagEnum
	flagFile
	flagDir
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Type   flagType
	Desc   string
	Values []string // flagEnum
	Exts   []string // flagFile, without dots; empty means any file
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Exts  []string // file arguments, without dots
	Words []string // fixed arguments
}

// completionMeta holds what a FlagSet cannot say about a flag value.
type completionMeta struct {
	Values []string
	Exts   []string
	IsFile bool
	IsDir  bool
}

var sourceExts = []string{"sup", "spaceup"}

// flagMeta returns completion metadata keyed by flag name.
func flagMeta(styleNames []string) map[string]completionMeta {
	return map[string]completionMeta{
		"separators": {Values: []string{"blank", "comment"}},
		"format":     {Values: []string{string(FormatJSON), string(FormatYAML), string(FormatMdast)}},
		"highlight":  {Values: styles.Names()},
		"style":      {Values: styleNames},
		"config":     {IsFile: true, Exts: []string{"yaml", "yml"}},
		"output":     {IsFile: true},
		"asset-path": {IsDir: true},
	}
}

// extractFlags turns the flags registered on fs into completion definitions.
func extractFlags(fs *flag.FlagSet, meta map[string]completionMeta) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type, fd.Values = flagEnum, m.Values
			case m.IsFile:
				fd.Type, fd.Exts = flagFile, m.Exts
			case m.IsDir:
				fd.Type = flagDir
			}
		}
		defs = append(defs, fd)
	})
	return defs
}

// commandDefs returns the commands to complete, with flags taken from the
// FlagSets the commands parse with.
func commandDefs(styleNames []string) []commandDef {
	meta := flagMeta(styleNames)
	convertFS, _ := convertFlagSet()
	astFS, _ := astFlagSet()
	checkFS, _ := checkFlagSet()

	return []commandDef{
		{Name: "convert", Desc: "Convert spaceup files to HTML", Flags: extractFlags(convertFS, meta), Exts: sourceExts},
		{Name: "ast", Desc: "Print the parsed document tree", Flags: extractFlags(astFS, meta), Exts: sourceExts},
		{Name: "check", Desc: "Compare a rendering with expected HTML", Flags: extractFlags(checkFS, meta), Exts: []string{"sup", "spaceup", "html"}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Words: commands},
		{Name: "completion", Desc: "Generate a shell completion script", Words: shells},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell, cmds []commandDef) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(cmds)
	case ShellZsh:
		script = zshScript(cmds)
	case ShellFish:
		script = fishScript(cmds)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(shells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell, got %d", ErrUsage, len(args))
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]), commandDefs(styleNames("", env.AssetLoader)))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func bashScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for spaceup\n")
	b.WriteString("_spaceup() {\n")
	b.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\" prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    COMPREPLY=()\n\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Exts) == 0 && len(c.Words) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var names []string
		var valueCases strings.Builder
		for _, f := range c.Flags {
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern = "-" + f.Short + "|" + pattern
			}
			names = append(names, "--"+f.Long)

			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&valueCases, "            %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", pattern, strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&valueCases, "            %s) %s; return ;;\n", pattern, bashFiles(f.Exts))
			case flagDir:
				fmt.Fprintf(&valueCases, "            %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pattern)
			case flagString, flagInt:
				fmt.Fprintf(&valueCases, "            %s) return ;;\n", pattern)
			}
		}

		if valueCases.Len() > 0 {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(valueCases.String())
			b.WriteString("        esac\n")
		}
		if len(names) > 0 {
			b.WriteString("        if [[ $cur == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(names, " "))
			b.WriteString("            return\n        fi\n")
		}
		switch {
		case len(c.Words) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(c.Words, " "))
		case len(c.Exts) > 0:
			fmt.Fprintf(&b, "        %s\n", bashFiles(c.Exts))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n}\n")
	b.WriteString("complete -o filenames -F _spaceup spaceup\n")
	return b.String()
}

// bashFiles completes directories plus files with one of exts.
func bashFiles(exts []string) string {
	if len(exts) == 0 {
		return `COMPREPLY=($(compgen -f -- "$cur"))`
	}
	return fmt.Sprintf(`COMPREPLY=($(compgen -d -- "$cur") $(compgen -f -X '!*.@(%s)' -- "$cur"))`, strings.Join(exts, "|"))
}

func zshScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef spaceup\n\n")
	b.WriteString("_spaceup() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    local cmd=${words[2]}\n    shift words\n    (( CURRENT-- ))\n\n")
	b.WriteString("    case $cmd in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Exts) == 0 && len(c.Words) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n        _arguments -s", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n            %s", zshFlag(f))
		}
		switch {
		case len(c.Words) > 0:
			fmt.Fprintf(&b, " \\\n            '1:argument:(%s)'", strings.Join(c.Words, " "))
		case len(c.Exts) > 0:
			fmt.Fprintf(&b, " \\\n            '*:file:_files -g \"*.(%s)\"'", strings.Join(c.Exts, "|"))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n}\n\n")
	b.WriteString("compdef _spaceup spaceup\n")
	return b.String()
}

func zshFlag(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files"
		if len(f.Exts) > 0 {
			action += ` -g "*.(` + strings.Join(f.Exts, "|") + `)"`
		}
	case flagDir:
		action = ":directory:_files -/"
	case flagString, flagInt:
		action = ":" + f.Long + ": "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'" + desc + action + "'"
}

func zshEscape(s string) string {
	return strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`).Replace(s)
}

func fishScript(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for spaceup\n")
	b.WriteString("complete -c spaceup -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c spaceup -n __fish_use_subcommand -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := fishQuote("__fish_seen_subcommand_from " + c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c spaceup -n %s", cond)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -l %s", f.Long)
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, " -x -a %s", fishQuote(strings.Join(f.Values, " ")))
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case flagString, flagInt:
				b.WriteString(" -x")
			case flagBool:
			}
			fmt.Fprintf(&b, " -d %s\n", fishQuote(f.Desc))
		}
		switch {
		case len(c.Words) > 0:
			fmt.Fprintf(&b, "complete -c spaceup -n %s -a %s\n", cond, fishQuote(strings.Join(c.Words, " ")))
		case len(c.Exts) > 0:
			fmt.Fprintf(&b, "complete -c spaceup -n %s -F\n", cond)
		}
	}
	return b.String()
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: spaceup completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a shell completion script.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(spaceup completion bash)\"        # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(spaceup completion zsh)\"         # in ~/.zshrc, after compinit")
	fmt.Fprintln(w, "  Fish:  spaceup completion fish > ~/.config/fish/completions/spaceup.fish")
}
