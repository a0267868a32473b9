package query

import (
	"fmt"
	"slices"

	"github.com/roach88/hypermatch/internal/atom"
)

// ValidationResult contains the problems found in a query.
type ValidationResult struct {
	// Valid is false when the query cannot be materialized or matched.
	Valid bool

	// Errors lists problems that make the query unusable.
	Errors []string

	// Warnings lists legal but suspicious constructs.
	Warnings []string
}

// Validate checks a query before it is materialized.
//
// Errors:
//  1. Malformed terms (nil, empty type, link with a nil member)
//  2. Variables declared twice, or used without being declared
//  3. A clause that is just a variable (nothing to anchor on)
//  4. Clauses that share no node or variable with the first clause
//
// Warnings:
//  1. No clauses (the query matches nothing)
//  2. Declared variables that no clause uses
//
// Validate is a pure function with no side effects.
func Validate(q Query) ValidationResult {
	v := &validator{
		errors:   []string{},
		warnings: []string{},
		declared: make(map[string]bool),
	}
	v.validateQuery(q)

	return ValidationResult{
		Valid:    len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
}

// validator accumulates findings during traversal.
type validator struct {
	errors   []string
	warnings []string
	declared map[string]bool
	used     map[string]bool
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	for _, name := range q.Variables {
		if name == "" {
			v.addError("empty variable name")
			continue
		}
		if v.declared[name] {
			v.addError("variable $%s declared twice", name)
		}
		v.declared[name] = true
	}

	if len(q.Clauses) == 0 {
		v.addWarning("query has no clauses and matches nothing")
	}

	v.used = make(map[string]bool)
	for i, c := range q.Clauses {
		if _, ok := c.(Var); ok {
			v.addError("clause %d is a bare variable", i)
		}
		v.validateTerm(fmt.Sprintf("clause %d", i), c)
	}

	for _, name := range q.Variables {
		if name != "" && !v.used[name] {
			v.addWarning("variable $%s is declared but never used", name)
		}
	}

	if len(v.errors) == 0 {
		for _, i := range disconnected(q.Clauses) {
			v.addError("clause %d shares no node or variable with clause 0", i)
		}
	}
}

func (v *validator) validateTerm(path string, t Term) {
	switch t := t.(type) {
	case Node:
		if t.Type == "" {
			v.addError("%s: node %q has no type", path, t.Name)
		}
	case Link:
		if t.Type == "" {
			v.addError("%s: link has no type", path)
		}
		for i, m := range t.Out {
			v.validateTerm(fmt.Sprintf("%s.%d", path, i), m)
		}
	case Var:
		if !v.declared[t.Name] {
			v.addError("%s: variable $%s is not declared", path, t.Name)
		}
		v.used[t.Name] = true
	case nil:
		v.addError("%s: missing term", path)
	default:
		v.addError("%s: unknown term type %T", path, t)
	}
}

// disconnected returns the indexes of clauses that cannot be reached from
// clause 0 through shared nodes or variables. Only leaves are sure to be
// shared: a link holding a variable is materialized per clause.
func disconnected(clauses []Term) []int {
	if len(clauses) < 2 {
		return nil
	}
	leaves := make([][]Term, len(clauses))
	for i, c := range clauses {
		walk(c, func(t Term) {
			switch t := t.(type) {
			case Node:
				t.Name = atom.NormalizeName(t.Name)
				leaves[i] = append(leaves[i], t)
			case Var:
				leaves[i] = append(leaves[i], t)
			}
		})
	}

	reached := make([]bool, len(clauses))
	reached[0] = true
	frontier := []int{0}
	for len(frontier) > 0 {
		i := frontier[0]
		frontier = frontier[1:]
		for j := range clauses {
			if reached[j] || !sharesLeaf(leaves[i], leaves[j]) {
				continue
			}
			reached[j] = true
			frontier = append(frontier, j)
		}
	}

	var out []int
	for i, ok := range reached {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

func sharesLeaf(a, b []Term) bool {
	return slices.ContainsFunc(a, func(t Term) bool {
		return slices.Contains(b, t)
	})
}
