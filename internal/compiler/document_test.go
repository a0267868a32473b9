package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hypermatch/internal/query"
)

func concept(name string) query.Node {
	return query.Node{Type: "ConceptNode", Name: name}
}

func inherit(a, b query.Term) query.Link {
	return query.Link{Type: "InheritanceLink", Out: []query.Term{a, b}}
}

func TestCompileDocument(t *testing.T) {
	v := compileValue(t, `
		atoms: [
			{link: "InheritanceLink", out: [{node: "ConceptNode", name: "dog"}, {node: "ConceptNode", name: "animal"}]},
		]
		queries: {
			zeta: {
				clauses: [{link: "InheritanceLink", out: [{node: "ConceptNode", name: "dog"}, {node: "ConceptNode", name: "animal"}]}]
			}
			alpha: {
				variables: ["X"]
				clauses: [{link: "InheritanceLink", out: [{var: "X"}, {node: "ConceptNode", name: "animal"}]}]
			}
		}
	`)

	doc, err := CompileDocument(v)
	require.NoError(t, err)

	want := query.Document{
		Atoms: []query.Term{inherit(concept("dog"), concept("animal"))},
		Queries: []query.Query{
			{
				Name:      "alpha",
				Variables: []string{"X"},
				Clauses:   []query.Term{inherit(query.Var{Name: "X"}, concept("animal"))},
			},
			{
				Name:      "zeta",
				Variables: []string{},
				Clauses:   []query.Term{inherit(concept("dog"), concept("animal"))},
			},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileDocumentEmpty(t *testing.T) {
	doc, err := CompileDocument(compileValue(t, `{}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Atoms)
	assert.Empty(t, doc.Queries)
}

func TestCompileDocumentAtomGroups(t *testing.T) {
	v := compileValue(t, `
		atoms: {
			b: [{node: "ConceptNode", name: "second"}]
			a: [{node: "ConceptNode", name: "first"}]
		}
	`)

	doc, err := CompileDocument(v)
	require.NoError(t, err)
	assert.Equal(t, []query.Term{concept("first"), concept("second")}, doc.Atoms)
}

func TestCompileQueryMissingClauses(t *testing.T) {
	v := compileValue(t, `queries: q: {variables: ["X"]}`)

	_, err := CompileQuery("q", v.LookupPath(cue.ParsePath("queries.q")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clauses is required")
}

func TestCompileQueryEmptyClauses(t *testing.T) {
	v := compileValue(t, `queries: q: {clauses: []}`)

	q, err := CompileQuery("q", v.LookupPath(cue.ParsePath("queries.q")))
	require.NoError(t, err)
	assert.Empty(t, q.Clauses)
	assert.Empty(t, q.Variables)
}

func TestCompileQueryNonStringVariable(t *testing.T) {
	v := compileValue(t, `queries: q: {variables: [1], clauses: []}`)

	_, err := CompileQuery("q", v.LookupPath(cue.ParsePath("queries.q")))
	require.Error(t, err)
}

func TestCompileDocumentPropagatesTermError(t *testing.T) {
	v := compileValue(t, `atoms: [{node: "ConceptNode", name: "ok"}, {bogus: true}]`)

	_, err := CompileDocument(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atoms[1]")
}
