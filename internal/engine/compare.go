package engine

import (
	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/traverse"
)

// compare unifies the pattern tree under pred with the data tree under
// cand. On success every pattern atom in the tree is grounded; on failure
// the grounding is left exactly as it was.
func (sc *searchContext) compare(pred, cand atom.Handle) (bool, error) {
	if err := sc.quota.Check(); err != nil {
		return false, err
	}
	sc.stats.Comparisons++

	if sc.isVariable(pred) {
		return sc.bindVariable(pred, cand), nil
	}

	// A pattern atom may refer to a data atom directly, except that a
	// clause root never matches itself.
	if pred == cand && cand != sc.currRoot {
		sc.g.bind(pred, cand)
		return true, nil
	}

	// Padding from unequal outgoing sets never matches.
	if pred.IsUndefined() || cand.IsUndefined() {
		return false, nil
	}

	pv, err := sc.r.View(sc.ctx, pred)
	if err != nil {
		return false, err
	}
	cv, err := sc.r.View(sc.ctx, cand)
	if err != nil {
		return false, err
	}
	if pv.Kind != cv.Kind || pv.Arity() != cv.Arity() || pv.Type != cv.Type {
		return false, nil
	}

	if pv.IsLink() {
		mark := sc.g.mark()
		mismatch, err := traverse.Pairs(pv.Outgoing, cv.Outgoing, func(a, b atom.Handle) (bool, error) {
			ok, err := sc.compare(a, b)
			return !ok, err
		})
		if err != nil || mismatch {
			sc.g.undo(mark)
			return false, err
		}
	} else {
		mismatch, err := sc.nodeMatch(sc.ctx, sc.r, pv, cv)
		if err != nil || mismatch {
			return false, err
		}
	}

	sc.g.bind(pred, cand)
	return true, nil
}

func (sc *searchContext) bindVariable(v, cand atom.Handle) bool {
	switch sc.varPolicy {
	case VariablesLenient:
		if cand == v {
			return false
		}
	default:
		if sc.isVariable(cand) {
			return false
		}
		if prev, ok := sc.g.get(v); ok && prev != cand {
			return false
		}
	}
	sc.g.bind(v, cand)
	return true
}

func (sc *searchContext) isVariable(h atom.Handle) bool {
	_, ok := sc.vars[h]
	return ok
}
