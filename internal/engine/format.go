package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/traverse"
)

// FormatSolution renders a solution for humans: one line per bound
// variable, then each clause with the data atom it matched.
//
//	(VariableNode "X") = (ConceptNode "dog")
//	(InheritanceLink (VariableNode "X") (ConceptNode "animal"))
//	  => (InheritanceLink (ConceptNode "dog") (ConceptNode "animal"))
//
// Variables and clauses appear in the order given.
func FormatSolution(ctx context.Context, r atom.Reader, clauses, vars []atom.Handle, s Solution) (string, error) {
	var b strings.Builder
	for _, v := range vars {
		h, ok := s.Binding[v]
		if !ok {
			continue
		}
		name, err := traverse.Sprint(ctx, r, v)
		if err != nil {
			return "", err
		}
		val, err := traverse.Sprint(ctx, r, h)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s = %s\n", name, val)
	}
	for _, c := range clauses {
		h, ok := s.Clauses[c]
		if !ok {
			continue
		}
		pat, err := traverse.Sprint(ctx, r, c)
		if err != nil {
			return "", err
		}
		val, err := traverse.Sprint(ctx, r, h)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s\n  => %s\n", pat, val)
	}
	return b.String(), nil
}
