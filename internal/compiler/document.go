package compiler

import (
	"sort"

	"cuelang.org/go/cue"

	"github.com/roach88/hypermatch/internal/query"
)

// CompileQuery parses one entry of the queries struct.
func CompileQuery(name string, v cue.Value) (query.Query, error) {
	if err := v.Err(); err != nil {
		return query.Query{}, formatCUEError(err)
	}

	q := query.Query{Name: name, Variables: []string{}}

	if vars := v.LookupPath(cue.ParsePath("variables")); vars.Exists() {
		iter, err := vars.List()
		if err != nil {
			return query.Query{}, formatCUEError(err)
		}
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return query.Query{}, formatCUEError(err)
			}
			q.Variables = append(q.Variables, s)
		}
	}

	clauses := v.LookupPath(cue.ParsePath("clauses"))
	if !clauses.Exists() {
		return query.Query{}, &CompileError{
			Field:   joinPath(fieldPath(v), "clauses"),
			Message: "clauses is required",
			Pos:     v.Pos(),
		}
	}
	terms, err := compileTerms(clauses)
	if err != nil {
		return query.Query{}, err
	}
	q.Clauses = terms

	return q, nil
}

// compileAtoms accepts either a list of terms or a struct of named lists.
// The struct form lets several files of one package each contribute a
// group; groups are concatenated in label order.
func compileAtoms(v cue.Value) ([]query.Term, error) {
	if !v.Exists() || v.IncompleteKind() != cue.StructKind {
		return compileTerms(v)
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	groups := make(map[string]cue.Value)
	var labels []string
	for iter.Next() {
		labels = append(labels, iter.Label())
		groups[iter.Label()] = iter.Value()
	}
	sort.Strings(labels)
	atoms := []query.Term{}
	for _, l := range labels {
		terms, err := compileTerms(groups[l])
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, terms...)
	}
	return atoms, nil
}

// CompileDocument parses the atoms and the queries struct of a
// document. Queries are returned sorted by name.
func CompileDocument(v cue.Value) (query.Document, error) {
	if err := v.Err(); err != nil {
		return query.Document{}, formatCUEError(err)
	}

	atoms, err := compileAtoms(v.LookupPath(cue.ParsePath("atoms")))
	if err != nil {
		return query.Document{}, err
	}
	doc := query.Document{Atoms: atoms, Queries: []query.Query{}}

	queries := v.LookupPath(cue.ParsePath("queries"))
	if !queries.Exists() {
		return doc, nil
	}
	iter, err := queries.Fields()
	if err != nil {
		return query.Document{}, formatCUEError(err)
	}
	for iter.Next() {
		q, err := CompileQuery(iter.Label(), iter.Value())
		if err != nil {
			return query.Document{}, err
		}
		doc.Queries = append(doc.Queries, q)
	}
	sort.Slice(doc.Queries, func(i, j int) bool {
		return doc.Queries[i].Name < doc.Queries[j].Name
	})

	return doc, nil
}
