package query

import (
	"strconv"
	"strings"

	"github.com/roach88/hypermatch/internal/atom"
)

// VariableType is the atom type used for materialized variables.
const VariableType atom.Type = "VariableNode"

// Term describes an atom tree.
//
// This is a sealed interface - only Node, Link and Var implement it.
type Term interface {
	termNode()
}

// Node is a leaf term.
type Node struct {
	Type atom.Type
	Name string
}

func (Node) termNode() {}

// Link is an internal term with an ordered outgoing set.
type Link struct {
	Type atom.Type
	Out  []Term
}

func (Link) termNode() {}

// Var is a query variable, referenced by name.
type Var struct {
	Name string
}

func (Var) termNode() {}

// Query is a named conjunction of clauses.
type Query struct {
	Name      string
	Variables []string // declared variable names
	Clauses   []Term   // clause trees; the first fixes the anchor type
}

// Document is everything one source file set declares.
type Document struct {
	Atoms   []Term  // ground data
	Queries []Query // sorted by name
}

// Query returns the named query.
func (d Document) Query(name string) (Query, bool) {
	for _, q := range d.Queries {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}

// Format renders a term as an s-expression. Variables print as $Name.
func Format(t Term) string {
	var b strings.Builder
	format(&b, t)
	return b.String()
}

func format(b *strings.Builder, t Term) {
	switch t := t.(type) {
	case Node:
		b.WriteString("(" + string(t.Type) + " " + strconv.Quote(t.Name) + ")")
	case Link:
		b.WriteString("(" + string(t.Type))
		for _, m := range t.Out {
			b.WriteByte(' ')
			format(b, m)
		}
		b.WriteByte(')')
	case Var:
		b.WriteString("$" + t.Name)
	default:
		b.WriteString("<nil>")
	}
}

// Vars returns the variable names used in t, in first-use order.
func Vars(t Term) []string {
	var out []string
	seen := make(map[string]bool)
	walk(t, func(t Term) {
		if v, ok := t.(Var); ok && !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v.Name)
		}
	})
	return out
}

// IsGround reports whether t contains no variables.
func IsGround(t Term) bool {
	return len(Vars(t)) == 0
}

// walk visits t and every term below it in preorder.
func walk(t Term, fn func(Term)) {
	fn(t)
	if l, ok := t.(Link); ok {
		for _, m := range l.Out {
			walk(m, fn)
		}
	}
}
