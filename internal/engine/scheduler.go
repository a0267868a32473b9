package engine

import (
	"github.com/roach88/hypermatch/internal/atom"
)

// nextUnsolved picks the next clause to attack.
//
// It returns the first atom, in RootMap order, that belongs to a solved
// clause and to an unsolved one, together with the first such unsolved
// root. done is true when every clause is solved. When clauses remain but
// none is joined to a solved one, the query is disconnected.
func nextUnsolved(m *RootMap, solved ClauseSolution) (join, next atom.Handle, done bool, ok bool) {
	if len(solved) == len(m.clauses) {
		return atom.Undefined, atom.Undefined, true, true
	}
	for _, h := range m.order {
		var hasSolved bool
		unsolved := atom.Undefined
		for _, root := range m.roots[h] {
			if _, ok := solved[root]; ok {
				hasSolved = true
			} else if unsolved == atom.Undefined {
				unsolved = root
			}
		}
		if hasSolved && unsolved != atom.Undefined {
			return h, unsolved, false, true
		}
	}
	return atom.Undefined, atom.Undefined, false, false
}
