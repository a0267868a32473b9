package atomspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hypermatch/internal/atom"
)

func TestAddNodeDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := New()

	h1, err := s.AddNode(ctx, "ConceptNode", "dog")
	require.NoError(t, err)
	h2, err := s.AddNode(ctx, "ConceptNode", "dog")
	require.NoError(t, err)
	h3, err := s.AddNode(ctx, "PredicateNode", "dog")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, atom.Handle(1), h1, "handles start at 1")
}

func TestAddNodeNormalizesName(t *testing.T) {
	ctx := context.Background()
	s := New()

	h1, err := s.AddNode(ctx, "ConceptNode", "caf\u00e9")
	require.NoError(t, err)
	h2, err := s.AddNode(ctx, "ConceptNode", "cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	v, err := s.View(ctx, h2)
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", v.Name)
}

func TestAddNodeRejectsEmptyType(t *testing.T) {
	_, err := New().AddNode(context.Background(), "", "x")
	assert.Error(t, err)
}

func TestAddLinkIsNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	s := New()
	dog, _ := s.AddNode(ctx, "ConceptNode", "dog")
	animal, _ := s.AddNode(ctx, "ConceptNode", "animal")

	l1, err := s.AddLink(ctx, "InheritanceLink", dog, animal)
	require.NoError(t, err)
	l2, err := s.AddLink(ctx, "InheritanceLink", dog, animal)
	require.NoError(t, err)
	assert.NotEqual(t, l1, l2)

	found, ok, err := s.FindLink(ctx, "InheritanceLink", dog, animal)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, l1, found, "FindLink returns the oldest link")

	_, ok, err = s.FindLink(ctx, "InheritanceLink", animal, dog)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddLinkUnknownMember(t *testing.T) {
	ctx := context.Background()
	s := New()
	dog, _ := s.AddNode(ctx, "ConceptNode", "dog")

	_, err := s.AddLink(ctx, "ListLink", dog, atom.Handle(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, atom.ErrNoSuchAtom)

	_, err = s.AddLink(ctx, "ListLink", atom.Undefined)
	assert.ErrorIs(t, err, atom.ErrNoSuchAtom)
}

func TestViewIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddNode(ctx, "ConceptNode", "a")
	b, _ := s.AddNode(ctx, "ConceptNode", "b")
	l, _ := s.AddLink(ctx, "ListLink", a, b)

	v, err := s.View(ctx, l)
	require.NoError(t, err)
	assert.True(t, v.IsLink())
	assert.Equal(t, 2, v.Arity())
	v.Outgoing[0] = b

	out, err := s.Outgoing(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, []atom.Handle{a, b}, out, "mutating a view must not reach the store")
}

func TestIncomingListsEachLinkOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddNode(ctx, "ConceptNode", "a")
	b, _ := s.AddNode(ctx, "ConceptNode", "b")
	l1, _ := s.AddLink(ctx, "ListLink", a, a)
	l2, _ := s.AddLink(ctx, "ListLink", b, a)

	in, err := s.Incoming(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []atom.Handle{l1, l2}, in)

	in, err = s.Incoming(ctx, l1)
	require.NoError(t, err)
	assert.Empty(t, in)

	_, err = s.Incoming(ctx, atom.Handle(42))
	assert.ErrorIs(t, err, atom.ErrNoSuchAtom)
}

func TestCandidatesByExactType(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddNode(ctx, "ConceptNode", "a")
	b, _ := s.AddNode(ctx, "ConceptNode", "b")
	l1, _ := s.AddLink(ctx, "InheritanceLink", a, b)
	_, _ = s.AddLink(ctx, "ListLink", a, b)
	l3, _ := s.AddLink(ctx, "InheritanceLink", b, a)

	var got []atom.Handle
	for h, err := range s.Candidates(ctx, "InheritanceLink") {
		require.NoError(t, err)
		got = append(got, h)
	}
	assert.Equal(t, []atom.Handle{l1, l3}, got)

	for range s.Candidates(ctx, "NoSuchLink") {
		t.Fatal("no candidates expected")
	}
}

func TestCandidatesStopsEarly(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, n := range []string{"a", "b", "c"} {
		_, _ = s.AddNode(ctx, "ConceptNode", n)
	}

	count := 0
	for range s.Candidates(ctx, "ConceptNode") {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestCandidatesHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()
	_, _ = s.AddNode(ctx, "ConceptNode", "a")
	cancel()

	var errs []error
	for _, err := range s.Candidates(ctx, "ConceptNode") {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestLinksTargeting(t *testing.T) {
	ctx := context.Background()
	s := New()
	dog, _ := s.AddNode(ctx, "ConceptNode", "dog")
	cat, _ := s.AddNode(ctx, "ConceptNode", "cat")
	likes, _ := s.AddNode(ctx, "PredicateNode", "likes")
	pair, _ := s.AddLink(ctx, "ListLink", dog, cat)
	eval, _ := s.AddLink(ctx, "EvaluationLink", likes, pair)

	assert.Equal(t, []atom.Handle{pair}, s.LinksTargeting("ConceptNode"),
		"a link mentioning two concepts is indexed once")
	assert.Equal(t, []atom.Handle{eval}, s.LinksTargeting("PredicateNode"))
	assert.Equal(t, []atom.Handle{eval}, s.LinksTargeting("ListLink"))
	assert.Empty(t, s.LinksTargeting("EvaluationLink"))
}

func TestHandlesAndTypes(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddNode(ctx, "ConceptNode", "a")
	l, _ := s.AddLink(ctx, "ListLink", a)

	assert.Equal(t, []atom.Handle{a, l}, s.Handles())
	assert.Equal(t, []atom.Type{"ConceptNode", "ListLink"}, s.Types())
}

func TestEmptyLinkIsALink(t *testing.T) {
	ctx := context.Background()
	s := New()
	l, err := s.AddLink(ctx, "ListLink")
	require.NoError(t, err)

	v, err := s.View(ctx, l)
	require.NoError(t, err)
	assert.True(t, v.IsLink())
	assert.Equal(t, 0, v.Arity())
}
