package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/roach88/hypermatch/internal/atom"
)

// candidateBatch bounds how many handles Candidates reads per query.
const candidateBatch = 256

// View returns a snapshot of the atom.
func (s *Store) View(ctx context.Context, h atom.Handle) (atom.View, error) {
	var (
		typ  string
		kind int
		name string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT type, kind, name FROM atoms WHERE id = ?
	`, int64(h)).Scan(&typ, &kind, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return atom.View{}, atom.NoSuchAtom(h)
	}
	if err != nil {
		return atom.View{}, fmt.Errorf("read atom %s: %w", h, err)
	}

	v := atom.View{Handle: h, Type: atom.Type(typ), Kind: atom.Kind(kind)}
	if v.IsNode() {
		v.Name = name
		return v, nil
	}
	v.Outgoing, err = s.outgoing(ctx, h)
	if err != nil {
		return atom.View{}, err
	}
	return v, nil
}

// Outgoing returns the ordered outgoing set of h (empty for nodes).
func (s *Store) Outgoing(ctx context.Context, h atom.Handle) ([]atom.Handle, error) {
	ok, err := exists(ctx, s.db, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, atom.NoSuchAtom(h)
	}
	return s.outgoing(ctx, h)
}

// Incoming returns every link containing h, each once, in handle order.
func (s *Store) Incoming(ctx context.Context, h atom.Handle) ([]atom.Handle, error) {
	ok, err := exists(ctx, s.db, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, atom.NoSuchAtom(h)
	}
	return s.handles(ctx, "incoming", `
		SELECT DISTINCT link_id FROM outgoing
		WHERE target_id = ?
		ORDER BY link_id ASC
	`, int64(h))
}

// Candidates enumerates every atom of exactly type t in handle order.
func (s *Store) Candidates(ctx context.Context, t atom.Type) iter.Seq2[atom.Handle, error] {
	return func(yield func(atom.Handle, error) bool) {
		var after int64
		for {
			batch, err := s.handles(ctx, "candidates", `
				SELECT id FROM atoms
				WHERE type = ? AND id > ?
				ORDER BY id ASC
				LIMIT ?
			`, string(t), after, candidateBatch)
			if err != nil {
				yield(atom.Undefined, err)
				return
			}
			for _, h := range batch {
				if !yield(h, nil) {
					return
				}
			}
			if len(batch) < candidateBatch {
				return
			}
			after = int64(batch[len(batch)-1])
		}
	}
}

// Types returns the distinct atom types present, sorted.
func (s *Store) Types(ctx context.Context) ([]atom.Type, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT type FROM atoms ORDER BY type COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query types: %w", err)
	}
	defer rows.Close()

	types := []atom.Type{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		types = append(types, atom.Type(t))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate types: %w", err)
	}
	return types, nil
}

// Size returns the number of stored atoms.
func (s *Store) Size(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM atoms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count atoms: %w", err)
	}
	return n, nil
}

func (s *Store) outgoing(ctx context.Context, h atom.Handle) ([]atom.Handle, error) {
	return s.handles(ctx, "outgoing", `
		SELECT target_id FROM outgoing
		WHERE link_id = ?
		ORDER BY position ASC
	`, int64(h))
}

// handles runs a single-column query and collects the result.
// Rows are fully drained and closed before returning.
func (s *Store) handles(ctx context.Context, what, query string, args ...any) ([]atom.Handle, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	// Return empty slice instead of nil
	out := []atom.Handle{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, atom.Handle(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

var (
	_ atom.Store      = (*Store)(nil)
	_ atom.LinkFinder = (*Store)(nil)
)
