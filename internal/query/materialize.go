package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/hypermatch/internal/atom"
)

// ValidationError reports a query rejected by Validate.
type ValidationError struct {
	Query  string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query %q: %s", e.Query, strings.Join(e.Errors, "; "))
}

// Compiled is a query materialized into a store.
type Compiled struct {
	Name      string
	Clauses   []atom.Handle          // clause roots, in declaration order
	Variables []atom.Handle          // in declaration order
	VarNames  map[atom.Handle]string // variable handle to name
	// Owned lists the links created for this query: every clause root and
	// every link that did not already exist in the store.
	Owned []atom.Handle
}

// Materialize validates q and adds its atoms to w.
//
// Every clause root is a new atom. Nodes and variables are shared with
// whatever already exists in the store, and so are ground links below a
// root when w implements atom.LinkFinder: a literal sub-term then refers to
// the data atom itself.
func Materialize(ctx context.Context, w atom.Writer, q Query) (Compiled, error) {
	if res := Validate(q); !res.Valid {
		return Compiled{}, &ValidationError{Query: q.Name, Errors: res.Errors}
	}

	c := Compiled{
		Name:     q.Name,
		VarNames: make(map[atom.Handle]string, len(q.Variables)),
	}
	vars := make(map[string]atom.Handle, len(q.Variables))
	for _, name := range q.Variables {
		h, err := w.AddNode(ctx, VariableType, name)
		if err != nil {
			return Compiled{}, fmt.Errorf("query %q: variable $%s: %w", q.Name, name, err)
		}
		vars[name] = h
		c.Variables = append(c.Variables, h)
		c.VarNames[h] = name
	}

	finder, _ := w.(atom.LinkFinder)
	m := &materializer{w: w, finder: finder, vars: vars}
	for i, clause := range q.Clauses {
		h, err := m.addRoot(ctx, clause)
		if err != nil {
			return Compiled{}, fmt.Errorf("query %q: clause %d: %w", q.Name, i, err)
		}
		c.Clauses = append(c.Clauses, h)
	}
	c.Owned = m.created
	return c, nil
}

// InsertGround adds a ground term to w and returns its handle.
//
// When w also implements atom.LinkFinder, links that already exist are
// reused so loading the same data twice does not duplicate it.
func InsertGround(ctx context.Context, w atom.Writer, t Term) (atom.Handle, error) {
	finder, _ := w.(atom.LinkFinder)
	m := &materializer{w: w, finder: finder}
	return m.add(ctx, t)
}

// Load inserts every ground atom of doc into w, in order.
func Load(ctx context.Context, w atom.Writer, doc Document) ([]atom.Handle, error) {
	out := make([]atom.Handle, 0, len(doc.Atoms))
	for i, t := range doc.Atoms {
		h, err := InsertGround(ctx, w, t)
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i, err)
		}
		out = append(out, h)
	}
	return out, nil
}

type materializer struct {
	w      atom.Writer
	finder atom.LinkFinder        // nil: always create links
	vars   map[string]atom.Handle // nil: variables are not allowed

	created []atom.Handle
}

// addRoot adds a clause. A root link is always created so it can never be
// the data it has to match.
func (m *materializer) addRoot(ctx context.Context, t Term) (atom.Handle, error) {
	l, ok := t.(Link)
	if !ok {
		return m.add(ctx, t)
	}
	out, err := m.members(ctx, l)
	if err != nil {
		return atom.Undefined, err
	}
	return m.addLink(ctx, l.Type, out)
}

func (m *materializer) addLink(ctx context.Context, t atom.Type, out []atom.Handle) (atom.Handle, error) {
	h, err := m.w.AddLink(ctx, t, out...)
	if err == nil {
		m.created = append(m.created, h)
	}
	return h, err
}

func (m *materializer) members(ctx context.Context, l Link) ([]atom.Handle, error) {
	out := make([]atom.Handle, len(l.Out))
	for i, member := range l.Out {
		h, err := m.add(ctx, member)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func (m *materializer) add(ctx context.Context, t Term) (atom.Handle, error) {
	switch t := t.(type) {
	case Node:
		return m.w.AddNode(ctx, t.Type, t.Name)
	case Var:
		h, ok := m.vars[t.Name]
		if !ok {
			return atom.Undefined, fmt.Errorf("variable $%s is not allowed here", t.Name)
		}
		return h, nil
	case Link:
		out, err := m.members(ctx, t)
		if err != nil {
			return atom.Undefined, err
		}
		// Links holding a variable belong to the query alone.
		if m.finder != nil && IsGround(t) {
			h, ok, err := m.finder.FindLink(ctx, t.Type, out...)
			if err != nil || ok {
				return h, err
			}
		}
		return m.addLink(ctx, t.Type, out)
	default:
		return atom.Undefined, fmt.Errorf("unknown term type %T", t)
	}
}
