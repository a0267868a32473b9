package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/hypermatch/internal/atom"
)

// Query is one named query for MatchAll.
type Query struct {
	Name      string
	Clauses   []atom.Handle
	Variables []atom.Handle
	Limit     int // maximum solutions to collect; 0 means all
	// Owned lists links that exist only because this query was added to
	// the store. No other query in the batch matches them.
	Owned []atom.Handle
}

// Result is the outcome of one query run by MatchAll.
type Result struct {
	Name      string
	Solutions []Solution
	Stats     Stats
	Err       error
}

// MatchAll runs independent queries concurrently against the Matcher's
// store, at most parallel at a time (unbounded when parallel <= 0).
//
// The queries share one store, so the clause roots, variables and owned
// links of every query in the batch are excluded from the others' data.
//
// Results are returned in query order. A failing query records its error
// in its Result and does not affect the others; MatchAll itself only
// fails when ctx is done.
func MatchAll(ctx context.Context, m *Matcher, queries []Query, parallel int) ([]Result, error) {
	results := make([]Result, len(queries))

	foreign := make(map[atom.Handle]bool)
	for _, q := range queries {
		for _, hs := range [][]atom.Handle{q.Clauses, q.Variables, q.Owned} {
			for _, h := range hs {
				foreign[h] = true
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, q := range queries {
		g.Go(func() error {
			sols, stats, err := m.collect(gctx, q.Clauses, q.Variables, foreign, q.Limit)
			results[i] = Result{Name: q.Name, Solutions: sols, Stats: stats, Err: err}
			if isContextErr(err) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
