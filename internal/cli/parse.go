package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/parsers"
	"github.com/roach88/strparse/internal/store"
	"github.com/roach88/strparse/internal/trace"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Parser      string
	Limit       int
	Grammar     string
	GrammarName string
	Graphemes   bool
	Normalize   string
	MaxSteps    int
	Database    string // optional - record the run
}

// Config returns the parser configuration selected by the flags.
func (o *ParseOptions) Config() parsers.Config {
	return parsers.Config{
		Kind:        o.Parser,
		Limit:       o.Limit,
		GrammarPath: o.Grammar,
		GrammarName: o.GrammarName,
		Graphemes:   o.Graphemes,
		Normalize:   o.Normalize,
		MaxSteps:    o.MaxSteps,
	}
}

// ParseResult is the JSON payload of a successful parse.
type ParseResult struct {
	Output string `json:"output"`
	Steps  int    `json:"steps,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <input>",
		Short: "Parse a string",
		Long: `Parse a string with a built-in parser or a CUE grammar.

Use "-" as the input to read it from stdin (one trailing newline is
dropped). With --db the run is recorded, step by step, into the trace
database and its run id is reported.

Exit codes:
  0 - Input parsed
  1 - Input rejected by the parser
  2 - Command error (invalid flags, grammar not found, database error)

Examples:
  strparse parse '"foo \"bar\""'
  strparse parse --parser truncate --limit 3 'abcdef'
  strparse parse --parser grammar --grammar quoted.cue --name quoted '"x"'
  strparse parse --db ./runs.db --format json '"foo" bar'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Parser, "parser", "p", parsers.KindQuoted,
		fmt.Sprintf("parser to use (%s)", strings.Join(parsers.Kinds, "|")))
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "truncate: number of characters kept (negative for the default)")
	cmd.Flags().StringVar(&opts.Grammar, "grammar", "", "grammar: path to the CUE grammar file")
	cmd.Flags().StringVar(&opts.GrammarName, "name", "", "grammar: grammar name (optional when the file declares one)")
	cmd.Flags().BoolVar(&opts.Graphemes, "graphemes", false, "treat grapheme clusters as characters")
	cmd.Flags().StringVar(&opts.Normalize, "normalize", "none", "normalize input first (none|nfc|nfd)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "fail after this many handler calls (0 for no limit)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run into this SQLite database")

	return cmd
}

func runParse(opts *ParseOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	input, err := readInput(arg, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	cfg := opts.Config()
	if err := cfg.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidConfig, err.Error(), nil)
	}

	var (
		output   string
		parseErr error
		runID    string
		steps    int
	)

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		res, err := trace.NewTracer(st, trace.WithLogger(logger)).Run(cmd.Context(), cfg, input)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidConfig, err.Error(), nil)
		}
		output, parseErr, runID, steps = res.Run.Output, res.Err, res.Run.ID, len(res.Steps)
		formatter.VerboseLog("Recorded run %s (%d steps)", runID, steps)
	} else {
		built, err := parsers.New(cfg, engine.WithLogger(logger))
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidConfig, err.Error(), nil)
		}
		output, parseErr = built.Parser.Parse(input)
	}

	if parseErr != nil {
		info := parsers.Describe(parseErr)
		if opts.Format == "json" {
			if err := formatter.encodeJSON(CLIResponse{
				Status: "error",
				Error:  &CLIError{Code: ErrCodeParse, Message: info.Message, Details: info},
				RunID:  runID,
			}); err != nil {
				return err
			}
			return NewExitError(ExitFailure, info.Message)
		}
		if runID != "" {
			fmt.Fprintf(formatter.GetErrWriter(), "run: %s\n", runID)
		}
		return formatter.Fail(ExitFailure, ErrCodeParse, info.Message, info)
	}

	if opts.Format == "json" {
		return formatter.SuccessWithRun(ParseResult{Output: output, Steps: steps}, runID)
	}
	if runID != "" {
		fmt.Fprintf(formatter.GetErrWriter(), "run: %s\n", runID)
	}
	fmt.Fprintln(formatter.Writer, output)
	return nil
}

// readInput returns arg, or stdin when arg is "-".
func readInput(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
