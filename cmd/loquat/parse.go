package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/opal-lang/loquat/core/parser"
	"github.com/opal-lang/loquat/core/stream"
	"github.com/opal-lang/loquat/internal/config"
	"github.com/opal-lang/loquat/internal/grammars"
	"github.com/opal-lang/loquat/internal/report"
	"github.com/opal-lang/loquat/runtime/sugar"
	"github.com/opal-lang/loquat/runtime/trace"
)

const defaultGrammar = "json"

func logger() commonlog.Logger {
	return commonlog.GetLogger("loquat.cli")
}

type parseOptions struct {
	grammar    string
	configPath string
	format     string
	telemetry  string
	tabWidth   int
	unicode    bool
	trace      bool
	watch      bool
}

func newParseCmd(global *globalOptions) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file (or stdin) with a built-in grammar",
		Long: `Parse a file with a built-in grammar and report the value or the error.

Reads stdin when the file is "-" or omitted. Settings come from --config,
then from flags given on the command line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, global, &opts, path)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.grammar, "grammar", "g", defaultGrammar, "Grammar to parse with (see 'loquat grammars')")
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON settings file")
	f.StringVarP(&opts.format, "format", "o", string(report.FormatText), "Output format: text, json or cbor")
	f.StringVar(&opts.telemetry, "telemetry", config.TelemetryOff, "Telemetry: off, basic or timing")
	f.IntVar(&opts.tabWidth, "tab-width", parser.DefaultConfig().TabWidth, "Columns per tab stop")
	f.BoolVar(&opts.unicode, "unicode", false, "Count columns in code points instead of UTF-16 units")
	f.BoolVar(&opts.trace, "trace", false, "Log parser entry and exit at debug level")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Re-parse the file whenever it changes")
	return cmd
}

// job is a fully resolved parse request.
type job struct {
	grammar grammars.Grammar
	cfg     *config.Config
	format  report.Format
	trace   bool
	color   bool
}

func runParse(cmd *cobra.Command, global *globalOptions, opts *parseOptions, path string) error {
	j, err := resolveJob(cmd, global, opts)
	if err != nil {
		return &exitError{code: ExitInvalidArguments, err: err}
	}
	if j.trace && global.verbose < 2 {
		configureLogging(2)
	}

	if !opts.watch {
		return parseOnce(cmd, j, path)
	}
	if path == "-" {
		return &exitError{code: ExitInvalidArguments, err: &CLIError{
			Message: "--watch needs a file",
			Hint:    "pass the file to watch instead of reading stdin",
		}}
	}

	if err := parseOnce(cmd, j, path); err != nil && !isParseFailure(err) {
		return err
	}
	return watchFile(cmd.Context(), path, func() error {
		if err := parseOnce(cmd, j, path); err != nil && !isParseFailure(err) {
			return err
		}
		return nil
	})
}

// resolveJob merges the settings file with flags given on the command line.
func resolveJob(cmd *cobra.Command, global *globalOptions, opts *parseOptions) (*job, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("tab-width") {
		cfg.TabWidth = opts.tabWidth
	}
	if flags.Changed("unicode") {
		cfg.UnicodeMode = opts.unicode
	}
	if flags.Changed("telemetry") {
		cfg.Telemetry = opts.telemetry
	}
	if flags.Changed("grammar") || cfg.Grammar == "" {
		cfg.Grammar = opts.grammar
	}

	if cfg.TabWidth < 1 {
		return nil, &CLIError{Message: fmt.Sprintf("tab width must be positive, got %d", cfg.TabWidth)}
	}
	switch cfg.Telemetry {
	case config.TelemetryOff, config.TelemetryBasic, config.TelemetryTiming:
	default:
		return nil, &CLIError{
			Message: fmt.Sprintf("unknown telemetry mode %q", cfg.Telemetry),
			Hint:    suggestionHint(sugar.Suggest(cfg.Telemetry, []string{config.TelemetryOff, config.TelemetryBasic, config.TelemetryTiming})),
		}
	}

	g, ok := grammars.Lookup(cfg.Grammar)
	if !ok {
		return nil, &CLIError{
			Message: fmt.Sprintf("unknown grammar %q", cfg.Grammar),
			Details: "available: " + strings.Join(grammars.Names(), ", "),
			Hint:    suggestionHint(sugar.Suggest(cfg.Grammar, grammars.Names())),
		}
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	return &job{
		grammar: g,
		cfg:     cfg,
		format:  format,
		trace:   opts.trace,
		color:   useColor(global, cmd.OutOrStdout()),
	}, nil
}

var errParseFailed = &exitError{code: ExitParseError}

func isParseFailure(err error) bool {
	return err == errParseFailed
}

// parseOnce reads path, parses it and writes the report.
func parseOnce(cmd *cobra.Command, j *job, path string) error {
	data, source, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return &exitError{code: ExitIOError, err: err}
	}

	p := j.grammar.Parser()
	if j.trace {
		p = trace.Trace(j.grammar.Name, p)
	}

	logger().Debugf("parsing %s with %s", displayName(source), j.grammar.Name)
	out := parser.ParseDetailed(p, source, stream.FromString(string(data)), nil, j.cfg.Options()...)
	r := report.New(j.grammar.Name, source, data, out)

	if err := report.Write(cmd.OutOrStdout(), r, j.format, j.color); err != nil {
		return &exitError{code: ExitIOError, err: fmt.Errorf("write report: %w", err)}
	}
	if !r.Success {
		return errParseFailed
	}
	return nil
}

// readInput returns the bytes to parse and the source name used in
// positions. Stdin has an empty source name.
func readInput(stdin io.Reader, path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("error reading stdin: %w", err)
		}
		return data, "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error opening file %s: %w", path, err)
	}
	return data, path, nil
}

func displayName(source string) string {
	if source == "" {
		return "<stdin>"
	}
	return source
}

func grammarList() []grammars.Grammar {
	names := grammars.Names()
	out := make([]grammars.Grammar, 0, len(names))
	for _, name := range names {
		g, _ := grammars.Lookup(name)
		out = append(out, g)
	}
	return out
}
