package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/atomspace"
	"github.com/roach88/hypermatch/internal/query"
	"github.com/roach88/hypermatch/internal/store"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	DBPath string
}

// LoadSummary reports what a load wrote.
type LoadSummary struct {
	DB        string `json:"db"`
	Files     int    `json:"files"`
	Atoms     int    `json:"atoms"`      // ground atoms in the documents
	Added     int    `json:"added"`      // atoms new to the database
	StoreSize int    `json:"store_size"` // atoms in the database afterwards
	// Types lists the atom types in the database afterwards, sorted.
	Types []atom.Type `json:"types"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load <graph-dir>",
		Short: "Load ground atoms into a database",
		Long: `Insert the ground atoms of the CUE documents in a directory into a
SQLite database. The atoms are compiled in memory first and written in a
single transaction, so a failed load leaves the database untouched.
Existing nodes and links are reused, so loading the same documents twice
adds nothing.

Examples:
  hypermatch load --db ./graph.db ./graphs`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runLoad(ctx context.Context, opts *LoadOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, err := LoadDocuments(dir)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	space := atomspace.New()
	if _, err := query.Load(ctx, space, loadResult.Document); err != nil {
		_ = formatter.Error(ErrCodeInvalidAtom, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to compile atoms", err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	before, err := st.Size(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read database", err)
	}
	if _, err := st.Import(ctx, space); err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to load atoms", err)
	}
	after, err := st.Size(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read database", err)
	}
	types, err := st.Types(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read database", err)
	}

	summary := LoadSummary{
		DB:        opts.DBPath,
		Files:     loadResult.FileCount,
		Atoms:     len(loadResult.Document.Atoms),
		Added:     after - before,
		StoreSize: after,
		Types:     types,
	}
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	formatter.VerboseLog("Types: %v", types)
	fmt.Fprintf(formatter.Writer, "✓ Loaded %d atom(s) from %d file(s) into %s (%d new, %d total)\n",
		summary.Atoms, summary.Files, summary.DB, summary.Added, summary.StoreSize)
	return nil
}

// commandError reports a LoadError and returns the matching exit error.
// Missing input is a command error; documents that do not compile fail.
func commandError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load failed", err)
	}
	_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
	switch loadErr.Code {
	case ErrCodeNotFound, ErrCodeScanError, ErrCodeNoFiles:
		return NewExitError(ExitCommandError, loadErr.Error())
	default:
		return NewExitError(ExitFailure, loadErr.Error())
	}
}
