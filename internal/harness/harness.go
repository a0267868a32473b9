package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/atomspace"
	"github.com/roach88/hypermatch/internal/compiler"
	"github.com/roach88/hypermatch/internal/query"
	"github.com/roach88/hypermatch/internal/store"
	"github.com/roach88/hypermatch/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh store for isolation.
//
// Execution flow:
// 1. Load and compile the CUE graph files
// 2. Open the selected backend and insert the ground atoms
// 3. Materialize the query and collect its solutions
// 4. Evaluate assertions and return the result
//
// Query failures (invalid, disconnected, store access) are recorded in the
// result so error assertions can check them. Any other failure is returned.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	doc, err := compiler.LoadDocumentFiles(scenario.Graphs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load graphs: %w", err)
	}
	q, ok := doc.Query(scenario.Query)
	if !ok {
		return nil, fmt.Errorf("query %q not found in graphs", scenario.Query)
	}

	st, closeStore, err := openBackend(scenario.Backend)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	if _, err := query.Load(ctx, st, doc); err != nil {
		return nil, fmt.Errorf("failed to load atoms: %w", err)
	}

	exec, err := Execute(ctx, st, q, Options{
		Lenient:        scenario.Lenient,
		Limit:          scenario.Limit,
		MaxComparisons: scenario.MaxComparisons,
		IDs:            testutil.NewFixedQueryID(scenario.QueryID),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	})

	result := NewResult()
	if exec != nil && exec.Records != nil {
		result.Solutions = exec.Records
		result.Stats = exec.Stats
	}
	if err != nil {
		code := ErrorCode(err)
		if code == "" {
			return nil, fmt.Errorf("failed to run query: %w", err)
		}
		result.ErrorCode = code
		result.ErrorMessage = err.Error()
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// openBackend returns a fresh empty store of the named kind.
func openBackend(backend string) (atom.Store, func() error, error) {
	switch backend {
	case "", BackendMemory:
		return atomspace.New(), func() error { return nil }, nil
	case BackendSQLite:
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}
