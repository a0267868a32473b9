package harness

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/engine"
	"github.com/roach88/hypermatch/internal/query"
	"github.com/roach88/hypermatch/internal/traverse"
)

// Options configure Execute.
type Options struct {
	Lenient bool
	Limit   int // 0 means all solutions
	// MaxComparisons bounds the search; 0 means unlimited.
	MaxComparisons int
	IDs            engine.QueryIDGenerator
	Logger         *slog.Logger
}

// Execution is the outcome of running one query.
type Execution struct {
	Query     query.Compiled
	Solutions []engine.Solution
	Records   []SolutionRecord
	Stats     engine.Stats
	// Err is the query's own failure when run by ExecuteAll.
	Err error
}

// SolutionRecord is a solution rendered with atom s-expressions.
type SolutionRecord struct {
	Bindings map[string]string `json:"bindings"`
	Clauses  []ClauseMatch     `json:"clauses"`
}

// ClauseMatch pairs a clause with the data atom it matched.
type ClauseMatch struct {
	Pattern string `json:"pattern"`
	Data    string `json:"data"`
}

// Execute materializes q into st and collects its solutions.
//
// The returned Execution is non-nil whenever q reached the engine, even
// when matching failed, so partial solutions can still be reported.
func Execute(ctx context.Context, st atom.Store, q query.Query, opts Options) (*Execution, error) {
	compiled, err := query.Materialize(ctx, st, q)
	if err != nil {
		return nil, err
	}

	m := engine.New(st, matcherOptions(opts)...)
	sols, stats, matchErr := m.Collect(ctx, compiled.Clauses, compiled.Variables, opts.Limit)
	exec := &Execution{Query: compiled, Solutions: sols, Stats: stats}

	records, err := Render(ctx, st, compiled, sols)
	if err != nil && matchErr == nil {
		return exec, err
	}
	exec.Records = records
	return exec, matchErr
}

// ExecuteAll materializes every query into st and matches them
// concurrently, at most parallel at a time (unbounded when parallel <= 0).
//
// Executions are returned in query order. A query that fails to match
// records its error in Execution.Err. ExecuteAll itself fails only when a
// query cannot be materialized or ctx is done.
func ExecuteAll(ctx context.Context, st atom.Store, qs []query.Query, parallel int, opts Options) ([]*Execution, error) {
	batch := make([]engine.Query, len(qs))
	compiled := make([]query.Compiled, len(qs))
	for i, q := range qs {
		c, err := query.Materialize(ctx, st, q)
		if err != nil {
			return nil, err
		}
		compiled[i] = c
		batch[i] = engine.Query{
			Name:      c.Name,
			Clauses:   c.Clauses,
			Variables: c.Variables,
			Limit:     opts.Limit,
			Owned:     c.Owned,
		}
	}

	results, err := engine.MatchAll(ctx, engine.New(st, matcherOptions(opts)...), batch, parallel)
	if err != nil {
		return nil, err
	}

	execs := make([]*Execution, len(results))
	for i, res := range results {
		exec := &Execution{Query: compiled[i], Solutions: res.Solutions, Stats: res.Stats, Err: res.Err}
		records, err := Render(ctx, st, compiled[i], res.Solutions)
		if err != nil {
			return nil, err
		}
		exec.Records = records
		execs[i] = exec
	}
	return execs, nil
}

func matcherOptions(opts Options) []engine.Option {
	var mopts []engine.Option
	if opts.Lenient {
		mopts = append(mopts, engine.WithVariablePolicy(engine.VariablesLenient))
	}
	if opts.MaxComparisons > 0 {
		mopts = append(mopts, engine.WithMaxComparisons(opts.MaxComparisons))
	}
	if opts.IDs != nil {
		mopts = append(mopts, engine.WithQueryIDGenerator(opts.IDs))
	}
	if opts.Logger != nil {
		mopts = append(mopts, engine.WithLogger(opts.Logger))
	}
	return mopts
}

// Render prints each solution's bindings by variable name and each
// clause with the data it matched, in declaration order.
func Render(ctx context.Context, r atom.Reader, q query.Compiled, sols []engine.Solution) ([]SolutionRecord, error) {
	records := make([]SolutionRecord, 0, len(sols))
	for _, s := range sols {
		rec := SolutionRecord{
			Bindings: make(map[string]string, len(s.Binding)),
			Clauses:  make([]ClauseMatch, 0, len(q.Clauses)),
		}
		for _, v := range q.Variables {
			h, ok := s.Binding[v]
			if !ok {
				continue
			}
			val, err := traverse.Sprint(ctx, r, h)
			if err != nil {
				return nil, err
			}
			rec.Bindings[q.VarNames[v]] = val
		}
		for _, c := range q.Clauses {
			h, ok := s.Clauses[c]
			if !ok {
				continue
			}
			pat, err := traverse.Sprint(ctx, r, c)
			if err != nil {
				return nil, err
			}
			data, err := traverse.Sprint(ctx, r, h)
			if err != nil {
				return nil, err
			}
			rec.Clauses = append(rec.Clauses, ClauseMatch{Pattern: pat, Data: data})
		}
		records = append(records, rec)
	}
	return records, nil
}

// ErrorCode classifies a run failure for error assertions. It returns ""
// for failures that are not about the query itself.
func ErrorCode(err error) string {
	var qerr *engine.QueryError
	if errors.As(err, &qerr) {
		return string(qerr.Code)
	}
	var verr *query.ValidationError
	if errors.As(err, &verr) {
		return string(engine.ErrCodeInvalidQuery)
	}
	if engine.IsBudgetExceeded(err) {
		return string(engine.ErrCodeBudgetExceeded)
	}
	return ""
}
