package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hypermatch/internal/atom"
)

func TestAddNode_Deduplicates(t *testing.T) {
	s := createTestStore(t)

	a := mustNode(t, s, "ConceptNode", "dog")
	b := mustNode(t, s, "ConceptNode", "dog")
	c := mustNode(t, s, "PredicateNode", "dog")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "type is part of node identity")
	assert.NotEqual(t, atom.Undefined, a)
}

func TestAddNode_NormalizesName(t *testing.T) {
	s := createTestStore(t)

	composed := mustNode(t, s, "ConceptNode", "caf\u00e9")
	decomposed := mustNode(t, s, "ConceptNode", "cafe\u0301")
	assert.Equal(t, composed, decomposed)
}

func TestAddNode_RejectsEmptyType(t *testing.T) {
	s := createTestStore(t)

	_, err := s.AddNode(context.Background(), "", "x")
	assert.Error(t, err)
}

func TestAddLink_NotDeduplicated(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	dog := mustNode(t, s, "ConceptNode", "dog")
	animal := mustNode(t, s, "ConceptNode", "animal")

	first := mustLink(t, s, "InheritanceLink", dog, animal)
	second := mustLink(t, s, "InheritanceLink", dog, animal)
	assert.NotEqual(t, first, second)

	found, ok, err := s.FindLink(ctx, "InheritanceLink", dog, animal)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, found, "FindLink returns the oldest match")

	_, ok, err = s.FindLink(ctx, "InheritanceLink", animal, dog)
	require.NoError(t, err)
	assert.False(t, ok, "outgoing order matters")
}

func TestAddLink_UnknownMember(t *testing.T) {
	s := createTestStore(t)
	dog := mustNode(t, s, "ConceptNode", "dog")

	_, err := s.AddLink(context.Background(), "ListLink", dog, atom.Handle(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, atom.ErrNoSuchAtom)

	n, err := s.Size(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed link must not leave a partial row")
}

func TestAddLink_Empty(t *testing.T) {
	s := createTestStore(t)

	h := mustLink(t, s, "ListLink")
	v, err := s.View(context.Background(), h)
	require.NoError(t, err)
	assert.True(t, v.IsLink())
	assert.Empty(t, v.Outgoing)
}
