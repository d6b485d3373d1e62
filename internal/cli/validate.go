package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/strparse/internal/grammar"
)

// ValidationIssue describes why a grammar file does not compile.
type ValidationIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// GrammarSummary describes one compiled grammar.
type GrammarSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	States      []string `json:"states"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Grammars []GrammarSummary  `json:"grammars,omitempty"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <grammar.cue>",
		Short: "Validate a grammar file",
		Long: `Compile every grammar declared in a CUE file and report problems.

Checks CUE syntax, rule fields, single-character matches, state ids and
goto targets.

Exit codes:
  0 - All grammars compile
  1 - The file does not compile
  2 - Command error (file not found)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := os.Stat(path); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("grammar file not found: %s", path), nil)
	}

	formatter.VerboseLog("Loading grammar file %s", path)
	grammars, err := grammar.Load(path)
	if err != nil {
		return outputValidationError(formatter, toIssue(err))
	}

	result := ValidationResult{Valid: true}
	for _, g := range grammars {
		summary := GrammarSummary{Name: g.Name, Description: g.Description}
		for _, st := range g.States {
			summary.States = append(summary.States, st.Name)
		}
		formatter.VerboseLog("Compiled grammar %s (%d states)", g.Name, len(g.States))
		result.Grammars = append(result.Grammars, summary)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %d grammar(s) valid\n", len(result.Grammars))
	for _, g := range result.Grammars {
		fmt.Fprintf(w, "  %s: %d states", g.Name, len(g.States))
		if g.Description != "" {
			fmt.Fprintf(w, " - %s", g.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// toIssue converts a load error, keeping the CUE position when known.
func toIssue(err error) ValidationIssue {
	var ce *grammar.CompileError
	if errors.As(err, &ce) {
		issue := ValidationIssue{Field: ce.Field, Message: ce.Message, Code: ErrCodeGrammar}
		if ce.Pos.IsValid() {
			issue.Line = ce.Pos.Line()
			issue.Column = ce.Pos.Column()
		}
		return issue
	}
	return ValidationIssue{Message: err.Error(), Code: ErrCodeGrammar}
}

func outputValidationError(formatter *OutputFormatter, issue ValidationIssue) error {
	if formatter.Format == "json" {
		if err := formatter.encodeJSON(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: []ValidationIssue{issue}},
			Error:  &CLIError{Code: issue.Code, Message: issue.Message},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "grammar validation failed")
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ grammar validation failed")
	if issue.Line > 0 {
		fmt.Fprintf(w, "  [%s] line %d:%d: ", issue.Code, issue.Line, issue.Column)
	} else {
		fmt.Fprintf(w, "  [%s] ", issue.Code)
	}
	if issue.Field != "" {
		fmt.Fprintf(w, "%s: ", issue.Field)
	}
	fmt.Fprintln(w, issue.Message)
	return NewExitError(ExitFailure, "grammar validation failed")
}
