package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/hypermatch/internal/atom"
)

const (
	kindNode = int(atom.KindNode)
	kindLink = int(atom.KindLink)
)

// AddNode inserts a node, or returns the existing handle when a node with
// the same type and normalized name is already stored.
func (s *Store) AddNode(ctx context.Context, t atom.Type, name string) (atom.Handle, error) {
	h, err := addNode(ctx, s.db, t, name)
	if err != nil {
		return atom.Undefined, fmt.Errorf("add node: %w", err)
	}
	return h, nil
}

// AddLink inserts a new link. Every member must already be stored.
// Links are never deduplicated here; see FindLink.
func (s *Store) AddLink(ctx context.Context, t atom.Type, outgoing ...atom.Handle) (atom.Handle, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return atom.Undefined, fmt.Errorf("add link: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	h, err := addLink(ctx, tx, t, outgoing)
	if err != nil {
		return atom.Undefined, fmt.Errorf("add link: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return atom.Undefined, fmt.Errorf("add link: commit: %w", err)
	}
	return h, nil
}

// FindLink returns the oldest link with the given type and outgoing set.
func (s *Store) FindLink(ctx context.Context, t atom.Type, outgoing ...atom.Handle) (atom.Handle, bool, error) {
	h, ok, err := findLink(ctx, s.db, t, outgoing)
	if err != nil {
		return atom.Undefined, false, fmt.Errorf("find link: %w", err)
	}
	return h, ok, nil
}

func addNode(ctx context.Context, q queryer, t atom.Type, name string) (atom.Handle, error) {
	name = atom.NormalizeName(name)
	key, err := atom.NodeKey(t, name)
	if err != nil {
		return atom.Undefined, err
	}

	var id int64
	err = q.QueryRowContext(ctx, `
		SELECT id FROM atoms WHERE atom_key = ? AND kind = ?
	`, key, kindNode).Scan(&id)
	switch {
	case err == nil:
		return atom.Handle(id), nil
	case !errors.Is(err, sql.ErrNoRows):
		return atom.Undefined, fmt.Errorf("lookup %s %q: %w", t, name, err)
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO atoms (atom_key, type, kind, name)
		VALUES (?, ?, ?, ?)
	`, key, string(t), kindNode, name)
	if err != nil {
		return atom.Undefined, fmt.Errorf("insert %s %q: %w", t, name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return atom.Undefined, fmt.Errorf("insert %s %q: %w", t, name, err)
	}
	return atom.Handle(id), nil
}

func addLink(ctx context.Context, q queryer, t atom.Type, outgoing []atom.Handle) (atom.Handle, error) {
	key, err := atom.LinkKey(t, outgoing)
	if err != nil {
		return atom.Undefined, err
	}
	for _, m := range outgoing {
		ok, err := exists(ctx, q, m)
		if err != nil {
			return atom.Undefined, err
		}
		if !ok {
			return atom.Undefined, fmt.Errorf("%s: %w", t, atom.NoSuchAtom(m))
		}
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO atoms (atom_key, type, kind)
		VALUES (?, ?, ?)
	`, key, string(t), kindLink)
	if err != nil {
		return atom.Undefined, fmt.Errorf("insert %s: %w", t, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return atom.Undefined, fmt.Errorf("insert %s: %w", t, err)
	}

	for pos, m := range outgoing {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO outgoing (link_id, position, target_id)
			VALUES (?, ?, ?)
		`, id, pos, int64(m)); err != nil {
			return atom.Undefined, fmt.Errorf("insert %s member %d: %w", t, pos, err)
		}
	}
	return atom.Handle(id), nil
}

func findLink(ctx context.Context, q queryer, t atom.Type, outgoing []atom.Handle) (atom.Handle, bool, error) {
	key, err := atom.LinkKey(t, outgoing)
	if err != nil {
		return atom.Undefined, false, err
	}
	var id int64
	err = q.QueryRowContext(ctx, `
		SELECT id FROM atoms
		WHERE atom_key = ? AND kind = ?
		ORDER BY id ASC
		LIMIT 1
	`, key, kindLink).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return atom.Undefined, false, nil
	case err != nil:
		return atom.Undefined, false, err
	}
	return atom.Handle(id), true, nil
}

func exists(ctx context.Context, q queryer, h atom.Handle) (bool, error) {
	if h == atom.Undefined {
		return false, nil
	}
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM atoms WHERE id = ?`, int64(h)).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("lookup %s: %w", h, err)
	}
	return true, nil
}
