package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/hypermatch/internal/atom"
	"github.com/roach88/hypermatch/internal/query"
)

// termKeys are the fields that select a term's kind.
var termKeys = []string{"node", "link", "var"}

// CompileTerm parses a CUE term value.
//
//	{node: "ConceptNode", name: "dog"}
//	{link: "ListLink", out: [...]}
//	{var: "X"}
func CompileTerm(v cue.Value) (query.Term, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	field := fieldPath(v)

	var present []string
	for _, k := range termKeys {
		if v.LookupPath(cue.ParsePath(k)).Exists() {
			present = append(present, k)
		}
	}
	if len(present) != 1 {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("term must have exactly one of node, link, var (found %s)", describeKeys(present)),
			Pos:     v.Pos(),
		}
	}

	switch present[0] {
	case "node":
		typ, err := requiredString(v, "node")
		if err != nil {
			return nil, err
		}
		name, err := requiredString(v, "name")
		if err != nil {
			return nil, err
		}
		return query.Node{Type: atom.Type(typ), Name: name}, nil

	case "link":
		typ, err := requiredString(v, "link")
		if err != nil {
			return nil, err
		}
		out, err := compileTerms(v.LookupPath(cue.ParsePath("out")))
		if err != nil {
			return nil, err
		}
		return query.Link{Type: atom.Type(typ), Out: out}, nil

	default:
		name, err := requiredString(v, "var")
		if err != nil {
			return nil, err
		}
		return query.Var{Name: name}, nil
	}
}

// compileTerms parses an optional list of terms. A missing list is empty.
func compileTerms(v cue.Value) ([]query.Term, error) {
	terms := []query.Term{}
	if !v.Exists() {
		return terms, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		t, err := CompileTerm(iter.Value())
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// requiredString reads a non-empty string field.
func requiredString(v cue.Value, name string) (string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return "", &CompileError{
			Field:   joinPath(fieldPath(v), name),
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	// Node names may be empty; types and variable names may not.
	if s == "" && name != "name" {
		return "", &CompileError{
			Field:   joinPath(fieldPath(v), name),
			Message: name + " must not be empty",
			Pos:     f.Pos(),
		}
	}
	return s, nil
}

func fieldPath(v cue.Value) string {
	if p := v.Path().String(); p != "" {
		return p
	}
	return "term"
}

func joinPath(parent, field string) string {
	return parent + "." + field
}

func describeKeys(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}
