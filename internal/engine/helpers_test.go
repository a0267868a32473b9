package engine

import (
	"io"
	"log/slog"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/testutil"
)

// newTestMatcher returns a Matcher with silent logging and a fixed query ID.
func newTestMatcher(r atom.Reader, opts ...Option) *Matcher {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithQueryIDGenerator(testutil.NewFixedQueryID("q-test")),
	}
	return New(r, append(base, opts...)...)
}

// recorder collects solutions and can stop after a number of them.
type recorder struct {
	stopAfter int
	got       []Solution
}

func (rec *recorder) fn(cs ClauseSolution, b Binding) bool {
	rec.got = append(rec.got, Solution{Clauses: cs, Binding: b})
	return rec.stopAfter > 0 && len(rec.got) >= rec.stopAfter
}

func handles(hs ...atom.Handle) []atom.Handle { return hs }
