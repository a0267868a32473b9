package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func concept(name string) Node { return Node{Type: "ConceptNode", Name: name} }

func inherit(a, b Term) Link { return Link{Type: "InheritanceLink", Out: []Term{a, b}} }

func TestValidate_Valid(t *testing.T) {
	q := Query{
		Name:      "join",
		Variables: []string{"X"},
		Clauses: []Term{
			inherit(Var{Name: "X"}, concept("animal")),
			inherit(concept("fido"), Var{Name: "X"}),
		},
	}

	res := Validate(q)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_Findings(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		errors   []string
		warnings []string
	}{
		{
			name:     "no clauses",
			query:    Query{},
			warnings: []string{"query has no clauses and matches nothing"},
		},
		{
			name: "undeclared variable",
			query: Query{Clauses: []Term{
				inherit(Var{Name: "X"}, concept("animal")),
			}},
			errors: []string{"clause 0.0: variable $X is not declared"},
		},
		{
			name: "unused variable",
			query: Query{
				Variables: []string{"X", "Y"},
				Clauses:   []Term{inherit(Var{Name: "X"}, concept("animal"))},
			},
			warnings: []string{"variable $Y is declared but never used"},
		},
		{
			name: "duplicate variable",
			query: Query{
				Variables: []string{"X", "X"},
				Clauses:   []Term{inherit(Var{Name: "X"}, concept("animal"))},
			},
			errors: []string{"variable $X declared twice"},
		},
		{
			name: "bare variable clause",
			query: Query{
				Variables: []string{"X"},
				Clauses:   []Term{Var{Name: "X"}},
			},
			errors: []string{"clause 0 is a bare variable"},
		},
		{
			name: "malformed terms",
			query: Query{Clauses: []Term{
				Link{Out: []Term{Node{Name: "x"}, nil}},
			}},
			errors: []string{
				"clause 0: link has no type",
				`clause 0.0: node "x" has no type`,
				"clause 0.1: missing term",
			},
		},
		{
			name: "disconnected clauses",
			query: Query{
				Variables: []string{"X", "Y"},
				Clauses: []Term{
					inherit(Var{Name: "X"}, concept("animal")),
					inherit(Var{Name: "Y"}, concept("plant")),
				},
			},
			errors: []string{"clause 1 shares no node or variable with clause 0"},
		},
		{
			name: "connected through a later clause",
			query: Query{
				Variables: []string{"X", "Y"},
				Clauses: []Term{
					inherit(Var{Name: "X"}, concept("a")),
					inherit(Var{Name: "Y"}, concept("b")),
					Link{Type: "ListLink", Out: []Term{Var{Name: "Y"}, Var{Name: "X"}}},
				},
			},
		},
		{
			name: "connected through a shared node",
			query: Query{
				Clauses: []Term{
					inherit(concept("dog"), concept("animal")),
					Link{Type: "MemberLink", Out: []Term{concept("dog"), concept("pets")}},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.query)
			if tt.errors == nil {
				tt.errors = []string{}
			}
			if tt.warnings == nil {
				tt.warnings = []string{}
			}
			assert.Equal(t, tt.errors, res.Errors)
			assert.Equal(t, tt.warnings, res.Warnings)
			assert.Equal(t, len(tt.errors) == 0, res.Valid)
		})
	}
}
