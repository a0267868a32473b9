package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hypermatch/internal/testutil"
)

func TestFormatSolution(t *testing.T) {
	g := testutil.NewGraph(t)
	dog, animal := g.Concept("dog"), g.Concept("animal")
	data := g.Inherit(dog, animal)
	x := g.Var("X")
	q := g.Inherit(x, animal)

	out, err := FormatSolution(context.Background(), g.Space, handles(q), handles(x), Solution{
		Clauses: ClauseSolution{q: data},
		Binding: Binding{x: dog},
	})
	require.NoError(t, err)

	want := `(VariableNode "X") = (ConceptNode "dog")
(InheritanceLink (VariableNode "X") (ConceptNode "animal"))
  => (InheritanceLink (ConceptNode "dog") (ConceptNode "animal"))
`
	assert.Equal(t, want, out)
}

func TestFormatSolution_SkipsUnbound(t *testing.T) {
	g := testutil.NewGraph(t)
	x := g.Var("X")
	q := g.Inherit(x, g.Concept("animal"))

	out, err := FormatSolution(context.Background(), g.Space, handles(q), handles(x), Solution{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
