package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/atomspace"
	"github.com/roach88/hypermatch/internal/query"
)

// ValidationIssue is one problem found in a document.
type ValidationIssue struct {
	Query   string `json:"query,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Atoms    int               `json:"atoms"`
	Queries  int               `json:"queries"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <graph-dir>",
		Short: "Validate graph documents and queries",
		Long: `Validate the CUE graph documents in a directory without matching.

Checks document syntax and term shape, then validates every query:
declared and used variables, clause roots and clause connectivity.

When the documents carry atoms, a query member whose type no document
link holds is reported as a warning: the query cannot match those atoms.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(ctx context.Context, opts *RootOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, err := LoadDocuments(dir)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			if loadErr.Pos.IsValid() {
				// A document that does not compile is a validation failure.
				return outputValidationErrors(formatter, ValidationResult{
					Errors: []ValidationIssue{{Code: loadErr.Code, Message: loadErr.Message, Line: loadErr.Pos.Line()}},
				})
			}
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	result := validateDocument(ctx, loadResult.Document, formatter)
	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// validateDocument validates every query in the document.
func validateDocument(ctx context.Context, doc query.Document, formatter *OutputFormatter) ValidationResult {
	result := ValidationResult{
		Valid:   true,
		Atoms:   len(doc.Atoms),
		Queries: len(doc.Queries),
	}

	var space *atomspace.AtomSpace
	if len(doc.Atoms) > 0 {
		space = atomspace.New()
		if _, err := query.Load(ctx, space, doc); err != nil {
			result.Errors = append(result.Errors, ValidationIssue{Code: ErrCodeInvalidAtom, Message: err.Error()})
			space = nil
		}
	}

	for _, q := range doc.Queries {
		formatter.VerboseLog("Validating query: %s", q.Name)
		if space != nil {
			for _, t := range memberTypes(q) {
				if len(space.LinksTargeting(t)) == 0 {
					result.Warnings = append(result.Warnings, ValidationIssue{
						Query:   q.Name,
						Code:    ErrCodeUnheldType,
						Message: fmt.Sprintf("no link in the documents holds a %s", t),
					})
				}
			}
		}
		res := query.Validate(q)
		for _, msg := range res.Errors {
			result.Errors = append(result.Errors, ValidationIssue{Query: q.Name, Code: ErrCodeQueryInvalid, Message: msg})
		}
		for _, msg := range res.Warnings {
			result.Warnings = append(result.Warnings, ValidationIssue{Query: q.Name, Code: ErrCodeQueryInvalid, Message: msg})
		}
	}

	if len(doc.Atoms) == 0 && len(doc.Queries) == 0 {
		result.Errors = append(result.Errors, ValidationIssue{
			Code:    ErrCodeGeneric,
			Message: "no atoms or queries found",
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// memberTypes lists the types of every non-variable clause member, in
// first-use order.
func memberTypes(q query.Query) []atom.Type {
	var types []atom.Type
	var walk func(t query.Term)
	walk = func(t query.Term) {
		l, ok := t.(query.Link)
		if !ok {
			return
		}
		for _, m := range l.Out {
			var mt atom.Type
			switch m := m.(type) {
			case query.Node:
				mt = m.Type
			case query.Link:
				mt = m.Type
				walk(m)
			default:
				continue
			}
			if !slices.Contains(types, mt) {
				types = append(types, mt)
			}
		}
	}
	for _, c := range q.Clauses {
		walk(c)
	}
	return types
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "warning: %s: %s\n", w.Query, w.Message)
	}
	fmt.Fprintf(formatter.Writer, "✓ Valid: %d atom(s), %d query(ies)\n", result.Atoms, result.Queries)
	return nil
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Missing or unreadable input is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, e := range errs {
		switch {
		case e.Line > 0:
			fmt.Fprintf(formatter.Writer, "line %d\n", e.Line)
		case e.Query != "":
			fmt.Fprintf(formatter.Writer, "query %s\n", e.Query)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
