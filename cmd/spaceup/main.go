package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/giladbarnea/spaceup/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var ErrUnknownCommand = errors.New("unknown command")

var commands = []string{"convert", "ast", "check", "version", "help", "completion"}

func main() {
	env := DefaultEnv()
	setMaxProcs(os.Args[1:], env.Stderr)
	os.Exit(runMain(os.Args[1:], env))
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota, logging the
// decision when --verbose is among args.
func setMaxProcs(args []string, w io.Writer) {
	logger := func(string, ...any) {}
	if slices.Contains(args, "-v") || slices.Contains(args, "--verbose") {
		logger = func(format string, a ...any) {
			fmt.Fprintf(w, format+"\n", a...)
		}
	}
	// Fails only on an invalid GOMAXPROCS value, in which case runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logger))
}

// runMain dispatches args to a command and returns the process exit code.
// A source file or "-" as first argument is shorthand for convert.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	if !isCommand(cmd) && (cmd == "-" || fileutil.IsSourceFile(cmd)) {
		cmd, rest = "convert", args
	}

	var err error
	switch cmd {
	case "convert":
		err = runConvert(ctx, rest, env)
	case "ast":
		err = runAST(ctx, rest, env)
	case "check":
		err = runCheck(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "spaceup %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	default:
		err = fmt.Errorf("%w: %q (run 'spaceup help')", ErrUnknownCommand, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return runHelp([]string{cmd}, env)
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "spaceup: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func isCommand(s string) bool {
	return slices.Contains(commands, s)
}
