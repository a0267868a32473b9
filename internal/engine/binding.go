package engine

import (
	"maps"

	"github.com/roach88/hypermatch/internal/atom"
)

// ClauseSolution maps each clause root to the data atom it matched.
type ClauseSolution map[atom.Handle]atom.Handle

// Binding maps each variable to the atom it was unified with.
type Binding map[atom.Handle]atom.Handle

// Solution is one complete answer to a query.
type Solution struct {
	Clauses ClauseSolution
	Binding Binding
}

// SolutionFunc receives each complete solution. The maps are copies owned
// by the callee. Returning true stops enumeration.
type SolutionFunc func(clauses ClauseSolution, binding Binding) (stop bool)

// trailEntry records the grounding a bind replaced so it can be restored.
type trailEntry struct {
	key  atom.Handle
	prev atom.Handle
	had  bool
}

// grounding maps every pattern atom matched so far (variables, inner links
// and literal nodes alike) to its data atom. Changes go through bind so
// they can be rolled back to a mark.
type grounding struct {
	m     map[atom.Handle]atom.Handle
	trail []trailEntry
}

func newGrounding() *grounding {
	return &grounding{m: make(map[atom.Handle]atom.Handle)}
}

func (g *grounding) get(h atom.Handle) (atom.Handle, bool) {
	v, ok := g.m[h]
	return v, ok
}

func (g *grounding) bind(k, v atom.Handle) {
	prev, had := g.m[k]
	g.trail = append(g.trail, trailEntry{key: k, prev: prev, had: had})
	g.m[k] = v
}

func (g *grounding) mark() int {
	return len(g.trail)
}

// undo restores every binding made since mark, newest first.
func (g *grounding) undo(mark int) {
	for i := len(g.trail) - 1; i >= mark; i-- {
		e := g.trail[i]
		if e.had {
			g.m[e.key] = e.prev
		} else {
			delete(g.m, e.key)
		}
	}
	g.trail = g.trail[:mark]
}

func (g *grounding) reset() {
	clear(g.m)
	g.trail = g.trail[:0]
}

// variables returns a copy restricted to the given variables.
func (g *grounding) variables(vars map[atom.Handle]struct{}) Binding {
	b := make(Binding, len(vars))
	for v := range vars {
		if h, ok := g.m[v]; ok {
			b[v] = h
		}
	}
	return b
}

func cloneSolution(cs ClauseSolution) ClauseSolution {
	return maps.Clone(cs)
}
