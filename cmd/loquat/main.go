package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/opal-lang/loquat/runtime/sugar"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
	ExitParseError       = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type globalOptions struct {
	verbose int
	noColor bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var global globalOptions
	root := newRootCmd(&global, stdin, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	color := useColor(&global, stderr)
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			FormatError(stderr, exit.err, color)
		}
		return exit.code
	}
	FormatError(stderr, err, color)
	return ExitInvalidArguments
}

func newRootCmd(global *globalOptions, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:           "loquat",
		Short:         "Run parser-combinator grammars over input",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(global.verbose)
			sugar.Init()
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().CountVarP(&global.verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&global.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newParseCmd(global))
	rootCmd.AddCommand(newGrammarsCmd())
	rootCmd.AddCommand(newMethodsCmd())
	return rootCmd
}

// configureLogging sends commonlog output to stderr. Verbosity 0 shows
// notices and above; 2 or more enables debug events such as parser traces.
func configureLogging(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

// useColor respects --no-color and NO_COLOR, and only colors terminals.
func useColor(global *globalOptions, w io.Writer) bool {
	if global.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// isTerminal reports whether w is a character device.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func newGrammarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the built-in grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, g := range grammarList() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", g.Name, g.Description)
			}
			return nil
		},
	}
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the parser methods available for chaining",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range sugar.Global().Names() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
