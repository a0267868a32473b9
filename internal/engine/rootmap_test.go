package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/testutil"
)

func TestBuildRootMap_OrderAndRoots(t *testing.T) {
	g := testutil.NewGraph(t)
	fido, animal := g.Concept("fido"), g.Concept("animal")
	x := g.Var("X")
	q1 := g.Inherit(x, animal)
	q2 := g.Inherit(fido, x)

	rm, err := BuildRootMap(context.Background(), g.Space, handles(q1, q2), handles(x))
	require.NoError(t, err)

	assert.Equal(t, handles(q1, x, animal, q2, fido), rm.Atoms())
	assert.Equal(t, handles(q1, q2), rm.Roots(x))
	assert.Equal(t, handles(q1), rm.Roots(animal))
	assert.Equal(t, handles(q1, q2), rm.Clauses())

	assert.True(t, rm.Contains(q2, fido))
	assert.False(t, rm.Contains(q1, fido))
	assert.True(t, rm.InQuery(q2))
	assert.False(t, rm.InQuery(g.Concept("unrelated")))
	assert.Empty(t, rm.Unreachable())
}

func TestBuildRootMap_RepeatedAtomListedOnce(t *testing.T) {
	g := testutil.NewGraph(t)
	x := g.Var("X")
	inner := g.Link("ListLink", x, x)
	q := g.Link("ListLink", inner, inner)

	rm, err := BuildRootMap(context.Background(), g.Space, handles(q), handles(x))
	require.NoError(t, err)

	assert.Equal(t, handles(q, inner, x), rm.Atoms())
	assert.Equal(t, handles(q), rm.Roots(x))
	assert.Equal(t, handles(q), rm.Roots(inner))
}

func TestBuildRootMap_UnknownClause(t *testing.T) {
	g := testutil.NewGraph(t)

	_, err := BuildRootMap(context.Background(), g.Space, handles(atom.Handle(404)), nil)
	assert.ErrorIs(t, err, atom.ErrNoSuchAtom)
}

func TestRootMap_Unreachable(t *testing.T) {
	g := testutil.NewGraph(t)
	x, y, z := g.Var("X"), g.Var("Y"), g.Var("Z")
	q1 := g.Inherit(x, g.Concept("a"))
	q2 := g.Inherit(y, g.Concept("b"))
	q3 := g.Link("ListLink", y, x)
	q4 := g.Inherit(z, g.Concept("c"))

	t.Run("chain through a later clause", func(t *testing.T) {
		rm, err := BuildRootMap(context.Background(), g.Space, handles(q1, q2, q3), handles(x, y))
		require.NoError(t, err)
		assert.Empty(t, rm.Unreachable())
	})

	t.Run("isolated clause", func(t *testing.T) {
		rm, err := BuildRootMap(context.Background(), g.Space, handles(q1, q2, q3, q4), handles(x, y, z))
		require.NoError(t, err)
		assert.Equal(t, handles(q4), rm.Unreachable())
	})
}

func TestRootMap_IsPattern(t *testing.T) {
	g := testutil.NewGraph(t)
	animal := g.Concept("animal")
	data := g.Inherit(g.Concept("dog"), animal)
	x := g.Var("X")
	inner := g.Link("ListLink", x, animal)
	q1 := g.Link("EvaluationLink", g.Node("PredicateNode", "likes"), inner)
	q2 := g.Link("EvaluationLink", x, data)

	rm, err := BuildRootMap(context.Background(), g.Space, handles(q1, q2), handles(x))
	require.NoError(t, err)

	assert.True(t, rm.IsPattern(q1), "clause root")
	assert.True(t, rm.IsPattern(q2), "clause root")
	assert.True(t, rm.IsPattern(inner), "holds a variable")
	assert.True(t, rm.IsPattern(x))
	assert.False(t, rm.IsPattern(data), "ground data link")
	assert.False(t, rm.IsPattern(animal))
	assert.True(t, rm.InQuery(data))
}
