package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/atomspace"
	"github.com/roach88/hypermatch/internal/engine"
	"github.com/roach88/hypermatch/internal/harness"
	"github.com/roach88/hypermatch/internal/query"
	"github.com/roach88/hypermatch/internal/store"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	DBPath  string
	Queries []string
	Limit   int
	Lenient bool
	// Parallel bounds how many queries run at once; 0 means no bound.
	Parallel int
	// MaxComparisons bounds the search; 0 means unlimited.
	MaxComparisons int
}

// MatchOutput is the JSON payload of the match command.
type MatchOutput struct {
	Query     string                   `json:"query"`
	Solutions []harness.SolutionRecord `json:"solutions"`
	Stats     engine.Stats             `json:"stats"`
	// Error is set when this query failed in a batch.
	Error string `json:"error,omitempty"`
}

// MatchBatchOutput is the JSON payload when several queries are run.
type MatchBatchOutput struct {
	Results []MatchOutput `json:"results"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <graph-dir>",
		Short: "Run queries against a graph",
		Long: `Run a named query from the CUE documents in a directory and print every
solution. Repeat --query to run several queries concurrently against the
same atoms.

Without --db the documents' atoms are matched in memory. With --db the
database contents are matched too; the query's own atoms are removed from
the database afterwards.

Examples:
  hypermatch match ./graphs --query kinds
  hypermatch match ./graphs --query kinds --db ./graph.db --limit 10
  hypermatch match ./graphs --query kinds --format json
  hypermatch match ./graphs -q kinds -q grandparent --parallel 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (default: in memory)")
	cmd.Flags().StringArrayVarP(&opts.Queries, "query", "q", nil, "name of a query to run (required, repeatable)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many solutions (0 = all)")
	cmd.Flags().BoolVar(&opts.Lenient, "lenient", false, "let later clauses rebind variables")
	cmd.Flags().IntVar(&opts.MaxComparisons, "max-comparisons", 0, "abort after this many tree comparisons (0 = unlimited)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "run at most this many queries at once (0 = all)")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func runMatch(ctx context.Context, opts *MatchOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if opts.Limit < 0 || opts.MaxComparisons < 0 || opts.Parallel < 0 {
		_ = formatter.Error(ErrCodeGeneric, "--limit, --max-comparisons and --parallel must be non-negative", nil)
		return NewExitError(ExitCommandError, "--limit, --max-comparisons and --parallel must be non-negative")
	}

	loadResult, err := LoadDocuments(dir)
	if err != nil {
		return commandError(formatter, err)
	}
	doc := loadResult.Document

	qs := make([]query.Query, len(opts.Queries))
	for i, name := range opts.Queries {
		q, ok := doc.Query(name)
		if !ok {
			msg := fmt.Sprintf("query %q not found in %s", name, dir)
			_ = formatter.Error(ErrCodeQueryNotFound, msg, map[string]any{"available": queryNames(doc)})
			return NewExitError(ExitCommandError, msg)
		}
		qs[i] = q
	}

	st, cleanup, err := openMatchStore(ctx, opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			formatter.VerboseLog("cleanup failed: %v", err)
		}
	}()

	if _, err := query.Load(ctx, st, doc); err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to load atoms", err)
	}

	if len(qs) > 1 {
		return runMatchBatch(ctx, opts, formatter, st, qs)
	}
	q := qs[0]

	queryID := engine.UUIDv7Generator{}.Generate()
	exec, err := harness.Execute(ctx, st, q, harness.Options{
		Lenient:        opts.Lenient,
		Limit:          opts.Limit,
		MaxComparisons: opts.MaxComparisons,
		IDs:            engine.NewFixedGenerator(queryID),
		Logger:         opts.Logger(formatter.GetErrWriter()),
	})
	if err != nil {
		var verr *query.ValidationError
		if errors.As(err, &verr) {
			_ = formatter.Error(ErrCodeQueryInvalid, err.Error(), verr.Errors)
			return WrapExitError(ExitFailure, "invalid query", err)
		}
		if exec == nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitFailure, "failed to prepare query", err)
		}
		// Report what was found before failing.
		if opts.Format != "json" {
			_ = outputMatchText(ctx, formatter, st, exec)
		}
		_ = formatter.Error(ErrCodeMatchFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "match failed", err)
	}

	formatter.VerboseLog("query %s: candidates=%d attempts=%d comparisons=%d",
		queryID, exec.Stats.Candidates, exec.Stats.Attempts, exec.Stats.Comparisons)

	if opts.Format == "json" {
		return formatter.SuccessForQuery(queryID, MatchOutput{
			Query:     q.Name,
			Solutions: exec.Records,
			Stats:     exec.Stats,
		})
	}
	return outputMatchText(ctx, formatter, st, exec)
}

// runMatchBatch runs several queries concurrently. Each query succeeds or
// fails on its own; the command fails if any of them did.
func runMatchBatch(ctx context.Context, opts *MatchOptions, formatter *OutputFormatter, st atom.Store, qs []query.Query) error {
	execs, err := harness.ExecuteAll(ctx, st, qs, opts.Parallel, harness.Options{
		Lenient:        opts.Lenient,
		Limit:          opts.Limit,
		MaxComparisons: opts.MaxComparisons,
		Logger:         opts.Logger(formatter.GetErrWriter()),
	})
	if err != nil {
		var verr *query.ValidationError
		if errors.As(err, &verr) {
			_ = formatter.Error(ErrCodeQueryInvalid, err.Error(), verr.Errors)
			return WrapExitError(ExitFailure, "invalid query", err)
		}
		_ = formatter.Error(ErrCodeMatchFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "match failed", err)
	}

	out := MatchBatchOutput{Results: make([]MatchOutput, len(execs))}
	var failed []error
	for i, exec := range execs {
		out.Results[i] = MatchOutput{Query: exec.Query.Name, Solutions: exec.Records, Stats: exec.Stats}
		if exec.Err != nil {
			out.Results[i].Error = exec.Err.Error()
			failed = append(failed, fmt.Errorf("%s: %w", exec.Query.Name, exec.Err))
		}
		formatter.VerboseLog("query %s: candidates=%d attempts=%d comparisons=%d",
			exec.Query.Name, exec.Stats.Candidates, exec.Stats.Attempts, exec.Stats.Comparisons)
	}

	if opts.Format == "json" {
		if len(failed) > 0 {
			_ = formatter.Error(ErrCodeMatchFailed, errors.Join(failed...).Error(), out)
			return WrapExitError(ExitFailure, "match failed", errors.Join(failed...))
		}
		return formatter.Success(out)
	}

	for _, exec := range execs {
		if err := outputMatchText(ctx, formatter, st, exec); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		_ = formatter.Error(ErrCodeMatchFailed, errors.Join(failed...).Error(), nil)
		return WrapExitError(ExitFailure, "match failed", errors.Join(failed...))
	}
	return nil
}

// openMatchStore returns the store to match against and a cleanup func.
// A database is truncated back to its current contents on cleanup.
func openMatchStore(ctx context.Context, dbPath string) (atom.Store, func() error, error) {
	if dbPath == "" {
		return atomspace.New(), func() error { return nil }, nil
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	mark, err := st.Mark(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, func() error {
		// The match context may already be canceled.
		terr := st.Truncate(context.Background(), mark)
		return errors.Join(terr, st.Close())
	}, nil
}

func outputMatchText(ctx context.Context, formatter *OutputFormatter, r atom.Reader, exec *harness.Execution) error {
	w := formatter.Writer
	for i, s := range exec.Solutions {
		text, err := engine.FormatSolution(ctx, r, exec.Query.Clauses, exec.Query.Variables, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Solution %d:\n", i+1)
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintf(w, "%d solution(s) for %s\n", len(exec.Solutions), exec.Query.Name)
	return nil
}

func queryNames(doc query.Document) []string {
	names := make([]string, len(doc.Queries))
	for i, q := range doc.Queries {
		names[i] = q.Name
	}
	return names
}
