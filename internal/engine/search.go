package engine

import (
	"context"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/traverse"
)

// searchContext holds all mutable state of one Match call.
type searchContext struct {
	ctx       context.Context
	r         atom.Reader
	rm        *RootMap
	vars      map[atom.Handle]struct{}
	varPolicy VariablePolicy
	nodeMatch NodeMatcher
	fn        SolutionFunc
	foreign   map[atom.Handle]bool
	stats     *Stats
	quota     *comparisonQuota

	// currRoot is the root of the clause being solved.
	currRoot atom.Handle
	g        *grounding
	solved   ClauseSolution
}

// attempt runs the search for one top-level candidate of the first clause.
func (sc *searchContext) attempt(cand atom.Handle) (bool, error) {
	sc.g.reset()
	clear(sc.solved)
	sc.currRoot = sc.rm.clauses[0]
	return sc.solveFrom(sc.currRoot, cand)
}

// solveFrom matches pred against cand and, on success, keeps going: up
// toward the clause root, or on to the next clause once the root is
// reached. Bindings made below this frame are undone when it returns.
func (sc *searchContext) solveFrom(pred, cand atom.Handle) (bool, error) {
	mark := sc.g.mark()
	defer sc.g.undo(mark)

	ok, err := sc.compare(pred, cand)
	if err != nil || !ok {
		return false, err
	}
	if pred == sc.currRoot {
		return sc.clauseSolved(cand)
	}
	return sc.ascend(pred, cand)
}

// ascend climbs one level in both graphs. Every parent of pred inside the
// current clause is tried against every parent of cand that is not
// pattern structure. Ground atoms the query shares with the data stay
// eligible.
func (sc *searchContext) ascend(pred, cand atom.Handle) (bool, error) {
	candParents, err := sc.r.Incoming(sc.ctx, cand)
	if err != nil {
		return false, err
	}
	return traverse.ForEachIncoming(sc.ctx, sc.r, pred, func(pp atom.Handle) (bool, error) {
		if !sc.rm.Contains(sc.currRoot, pp) {
			return false, nil
		}
		for _, cp := range candParents {
			if sc.rm.IsPattern(cp) || sc.foreign[cp] {
				continue
			}
			stop, err := sc.solveFrom(pp, cp)
			if err != nil || stop {
				return stop, err
			}
		}
		return false, nil
	})
}

// clauseSolved records the current clause and either reports a complete
// solution or starts on the next clause from its join atom.
func (sc *searchContext) clauseSolved(cand atom.Handle) (bool, error) {
	root := sc.currRoot
	sc.solved[root] = cand
	defer delete(sc.solved, root)

	join, next, done, ok := nextUnsolved(sc.rm, sc.solved)
	if !ok {
		// Unreachable after the connectivity check in Match.
		return false, errDisconnected
	}
	if done {
		sc.stats.Solutions++
		return sc.fn(cloneSolution(sc.solved), sc.g.variables(sc.vars)), nil
	}

	start, ok := sc.groundingFor(join)
	if !ok {
		return false, nil
	}
	sc.currRoot = next
	defer func() { sc.currRoot = root }()
	return sc.solveFrom(join, start)
}

// groundingFor returns the data atom a join atom stands for. A literal
// atom that was never grounded stands for itself.
func (sc *searchContext) groundingFor(join atom.Handle) (atom.Handle, bool) {
	if h, ok := sc.g.get(join); ok {
		return h, true
	}
	if sc.isVariable(join) {
		return atom.Undefined, false
	}
	return join, true
}
