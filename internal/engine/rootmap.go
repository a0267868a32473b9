package engine

import (
	"context"
	"slices"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/traverse"
)

// RootMap lists, for every atom that occurs in a query, the clause roots
// whose tree contains it.
//
// Atoms are kept in first-visit order (clause declaration order, then
// preorder within each clause) and each atom's roots in clause order. The
// map is immutable once built.
//
// An atom is pattern structure when it is a clause root or has a variable
// somewhere below it. Other atoms in a clause are ground: they may be data
// atoms the query refers to directly.
type RootMap struct {
	clauses []atom.Handle
	order   []atom.Handle
	roots   map[atom.Handle][]atom.Handle
	vars    map[atom.Handle]struct{}
	pattern map[atom.Handle]bool
}

// BuildRootMap walks every clause tree and records which roots each atom
// belongs to. vars lists the query's variable atoms.
func BuildRootMap(ctx context.Context, r atom.Reader, clauses, vars []atom.Handle) (*RootMap, error) {
	m := &RootMap{
		clauses: slices.Clone(clauses),
		roots:   make(map[atom.Handle][]atom.Handle),
		vars:    make(map[atom.Handle]struct{}, len(vars)),
		pattern: make(map[atom.Handle]bool),
	}
	for _, v := range vars {
		m.vars[v] = struct{}{}
	}
	for _, root := range clauses {
		if _, err := m.note(ctx, r, root, root); err != nil {
			return nil, err
		}
		m.pattern[root] = true
	}
	return m, nil
}

// note records root against h and everything below it, and reports
// whether a variable occurs at or below h. A subtree that was already
// recorded for this root is not walked again.
func (m *RootMap) note(ctx context.Context, r atom.Reader, root, h atom.Handle) (bool, error) {
	roots, seen := m.roots[h]
	if !seen {
		m.order = append(m.order, h)
	}
	if slices.Contains(roots, root) {
		return m.pattern[h], nil
	}
	m.roots[h] = append(roots, root)

	_, open := m.vars[h]
	_, err := traverse.ForEachOutgoing(ctx, r, h, func(child atom.Handle) (bool, error) {
		v, err := m.note(ctx, r, root, child)
		open = open || v
		return false, err
	})
	if open {
		m.pattern[h] = true
	}
	return open, err
}

// Clauses returns the clause roots in declaration order.
func (m *RootMap) Clauses() []atom.Handle {
	return slices.Clone(m.clauses)
}

// Atoms returns every atom in the query in first-visit order.
func (m *RootMap) Atoms() []atom.Handle {
	return slices.Clone(m.order)
}

// Roots returns the clause roots containing h, in clause order.
func (m *RootMap) Roots(h atom.Handle) []atom.Handle {
	return slices.Clone(m.roots[h])
}

// Contains reports whether h occurs in the tree of root.
func (m *RootMap) Contains(root, h atom.Handle) bool {
	return slices.Contains(m.roots[h], root)
}

// InQuery reports whether h occurs anywhere in the query.
func (m *RootMap) InQuery(h atom.Handle) bool {
	_, ok := m.roots[h]
	return ok
}

// IsPattern reports whether h is query structure rather than data the
// query refers to. Pattern atoms never stand for data.
func (m *RootMap) IsPattern(h atom.Handle) bool {
	return m.pattern[h]
}

// Unreachable returns the clause roots that cannot be reached from the
// first clause by hopping between clauses that share an atom.
func (m *RootMap) Unreachable() []atom.Handle {
	if len(m.clauses) == 0 {
		return nil
	}
	reached := map[atom.Handle]bool{m.clauses[0]: true}
	for changed := true; changed; {
		changed = false
		for _, h := range m.order {
			roots := m.roots[h]
			if !slices.ContainsFunc(roots, func(r atom.Handle) bool { return reached[r] }) {
				continue
			}
			for _, r := range roots {
				if !reached[r] {
					reached[r] = true
					changed = true
				}
			}
		}
	}

	var out []atom.Handle
	for _, c := range m.clauses {
		if !reached[c] {
			out = append(out, c)
		}
	}
	return out
}
