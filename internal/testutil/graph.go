package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/atomspace"
)

// Graph builds atoms in an in-memory AtomSpace and fails the test on any
// store error, so test bodies read like the hypergraph they describe.
type Graph struct {
	t     testing.TB
	Space *atomspace.AtomSpace
}

// NewGraph creates an empty Graph.
func NewGraph(t testing.TB) *Graph {
	return &Graph{t: t, Space: atomspace.New()}
}

// Node adds (or finds) a node.
func (g *Graph) Node(typ atom.Type, name string) atom.Handle {
	g.t.Helper()
	h, err := g.Space.AddNode(context.Background(), typ, name)
	require.NoError(g.t, err)
	return h
}

// Link adds a new link.
func (g *Graph) Link(typ atom.Type, out ...atom.Handle) atom.Handle {
	g.t.Helper()
	h, err := g.Space.AddLink(context.Background(), typ, out...)
	require.NoError(g.t, err)
	return h
}

// Concept adds (or finds) a ConceptNode.
func (g *Graph) Concept(name string) atom.Handle {
	g.t.Helper()
	return g.Node("ConceptNode", name)
}

// Var adds (or finds) a VariableNode.
func (g *Graph) Var(name string) atom.Handle {
	g.t.Helper()
	return g.Node("VariableNode", name)
}

// Inherit adds an InheritanceLink from a to b.
func (g *Graph) Inherit(a, b atom.Handle) atom.Handle {
	g.t.Helper()
	return g.Link("InheritanceLink", a, b)
}
