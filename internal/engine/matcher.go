package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/hypermatch/internal/atom"
)

var errDisconnected = errors.New("no solved clause shares an atom with the remaining clauses")

// Stats counts the work done by one Match call.
type Stats struct {
	Candidates  int // candidates produced by the store
	SelfSkipped int // candidates that are part of the query itself
	Attempts    int // candidates searched
	Solutions   int // solutions reported to the callback
	Comparisons int // tree comparator calls
	StoreErrors int // candidates abandoned after a store failure
}

// Matcher finds groundings of queries in a store.
//
// Thread-safety: a Matcher holds only configuration and may be shared by
// concurrent Match calls, provided the store supports concurrent readers.
type Matcher struct {
	r           atom.Reader
	nodeMatch   NodeMatcher
	varPolicy   VariablePolicy
	storePolicy StoreErrorPolicy
	ids         QueryIDGenerator
	logger      *slog.Logger
	maxCompares int
}

// New creates a Matcher reading from r.
func New(r atom.Reader, opts ...Option) *Matcher {
	m := &Matcher{
		r:           r,
		nodeMatch:   DefaultNodeMatch,
		varPolicy:   VariablesConsistent,
		storePolicy: StoreErrorSkipCandidate,
		ids:         UUIDv7Generator{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match enumerates every solution of the query, calling fn once for each.
//
// clauses are the clause roots; the first one fixes the anchor type whose
// atoms are tried as candidates. vars lists the variable atoms. An empty
// clause set has no solutions and is not an error.
func (m *Matcher) Match(ctx context.Context, clauses, vars []atom.Handle, fn SolutionFunc) error {
	_, err := m.MatchWithStats(ctx, clauses, vars, fn)
	return err
}

// MatchWithStats is Match that also reports how much work was done.
func (m *Matcher) MatchWithStats(ctx context.Context, clauses, vars []atom.Handle, fn SolutionFunc) (Stats, error) {
	return m.match(ctx, clauses, vars, nil, fn)
}

// match runs one query. Atoms in foreign belong to other queries sharing
// the store and are never taken for data.
func (m *Matcher) match(ctx context.Context, clauses, vars []atom.Handle, foreign map[atom.Handle]bool, fn SolutionFunc) (Stats, error) {
	var stats Stats
	queryID := m.ids.Generate()
	log := m.logger.With("query_id", queryID)

	if len(clauses) == 0 {
		log.Debug("empty query, nothing to match")
		return stats, nil
	}

	varSet := make(map[atom.Handle]struct{}, len(vars))
	for _, v := range vars {
		varSet[v] = struct{}{}
	}
	if err := checkClauses(queryID, clauses, varSet); err != nil {
		return stats, err
	}

	rm, err := BuildRootMap(ctx, m.r, clauses, vars)
	if isContextErr(err) {
		return stats, err
	}
	if err != nil {
		return stats, NewStoreError(queryID, fmt.Errorf("read clauses: %w", err))
	}
	if unreachable := rm.Unreachable(); len(unreachable) > 0 {
		roots := make([]string, len(unreachable))
		for i, h := range unreachable {
			roots[i] = h.String()
		}
		return stats, NewDisconnectedError(queryID, roots)
	}

	anchor, err := m.r.View(ctx, clauses[0])
	if isContextErr(err) {
		return stats, err
	}
	if err != nil {
		return stats, NewStoreError(queryID, fmt.Errorf("read anchor: %w", err))
	}

	log.Debug("match starting",
		"clauses", len(clauses),
		"variables", len(varSet),
		"anchor_type", anchor.Type,
		"policy", m.varPolicy.String(),
	)

	sc := &searchContext{
		ctx:       ctx,
		r:         m.r,
		rm:        rm,
		vars:      varSet,
		varPolicy: m.varPolicy,
		nodeMatch: m.nodeMatch,
		fn:        fn,
		stats:     &stats,
		foreign:   foreign,
		quota:     newComparisonQuota(m.maxCompares),
		g:         newGrounding(),
		solved:    make(ClauseSolution, len(clauses)),
	}

	var storeErrs []error
	for cand, err := range m.r.Candidates(ctx, anchor.Type) {
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			if isContextErr(err) {
				return stats, err
			}
			if m.storePolicy == StoreErrorAbort {
				return stats, NewStoreError(queryID, err)
			}
			log.Warn("candidate enumeration failed", "error", err)
			storeErrs = append(storeErrs, err)
			stats.StoreErrors++
			continue
		}

		stats.Candidates++
		if rm.InQuery(cand) || foreign[cand] {
			stats.SelfSkipped++
			continue
		}

		stats.Attempts++
		stop, err := sc.attempt(cand)
		if err != nil {
			switch {
			case isContextErr(err):
				return stats, err
			case IsBudgetExceeded(err):
				var be *BudgetExceededError
				errors.As(err, &be)
				be.QueryID = queryID
				log.Warn("comparison budget exhausted", "limit", be.Limit, "solutions", stats.Solutions)
				return stats, be
			case errors.Is(err, errDisconnected):
				return stats, NewDisconnectedError(queryID, nil)
			case m.storePolicy == StoreErrorAbort:
				return stats, NewStoreError(queryID, fmt.Errorf("candidate %s: %w", cand, err))
			}
			log.Warn("candidate abandoned after store failure",
				"candidate", cand.String(),
				"error", err,
			)
			storeErrs = append(storeErrs, fmt.Errorf("candidate %s: %w", cand, err))
			stats.StoreErrors++
			continue
		}
		if stop {
			log.Debug("enumeration stopped by callback", "candidate", cand.String())
			break
		}
	}

	log.Info("match complete",
		"candidates", stats.Candidates,
		"attempts", stats.Attempts,
		"solutions", stats.Solutions,
		"store_errors", stats.StoreErrors,
	)

	if len(storeErrs) > 0 {
		return stats, NewStoreError(queryID, storeErrs...)
	}
	return stats, nil
}

// Collect runs Match and gathers up to limit solutions (all when limit <= 0).
func (m *Matcher) Collect(ctx context.Context, clauses, vars []atom.Handle, limit int) ([]Solution, Stats, error) {
	return m.collect(ctx, clauses, vars, nil, limit)
}

func (m *Matcher) collect(ctx context.Context, clauses, vars []atom.Handle, foreign map[atom.Handle]bool, limit int) ([]Solution, Stats, error) {
	var out []Solution
	stats, err := m.match(ctx, clauses, vars, foreign, func(cs ClauseSolution, b Binding) bool {
		out = append(out, Solution{Clauses: cs, Binding: b})
		return limit > 0 && len(out) >= limit
	})
	return out, stats, err
}

// checkClauses rejects clause sets the search cannot anchor.
func checkClauses(queryID string, clauses []atom.Handle, vars map[atom.Handle]struct{}) error {
	seen := make(map[atom.Handle]bool, len(clauses))
	for i, c := range clauses {
		switch {
		case c.IsUndefined():
			return NewInvalidQueryError(queryID, fmt.Sprintf("clause %d is undefined", i))
		case seen[c]:
			return NewInvalidQueryError(queryID, fmt.Sprintf("clause %d repeats %s", i, c))
		}
		if _, ok := vars[c]; ok {
			return NewInvalidQueryError(queryID, fmt.Sprintf("clause %d is the variable %s", i, c))
		}
		seen[c] = true
	}
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
