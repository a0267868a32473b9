package store

import (
	"context"
	"fmt"

	"github.com/roach88/hypermatch/internal/atom"
)

// Source is an in-memory store that can list its handles in insertion
// order. Members always precede the links that contain them.
type Source interface {
	atom.Reader
	Handles() []atom.Handle
}

// Import copies every atom of src into the store in one transaction and
// returns the mapping from source handles to store handles.
//
// Nodes merge with existing nodes as usual. A link merges with the oldest
// stored link of the same type and outgoing set, so importing the same
// source twice leaves the store unchanged.
func (s *Store) Import(ctx context.Context, src Source) (map[atom.Handle]atom.Handle, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("import: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	mapped := make(map[atom.Handle]atom.Handle)
	for _, h := range src.Handles() {
		v, err := src.View(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", h, err)
		}

		var dst atom.Handle
		if v.IsNode() {
			dst, err = addNode(ctx, tx, v.Type, v.Name)
		} else {
			dst, err = importLink(ctx, tx, v, mapped)
		}
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", h, err)
		}
		mapped[h] = dst
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("import: commit: %w", err)
	}
	return mapped, nil
}

func importLink(ctx context.Context, q queryer, v atom.View, mapped map[atom.Handle]atom.Handle) (atom.Handle, error) {
	out := make([]atom.Handle, len(v.Outgoing))
	for i, m := range v.Outgoing {
		dst, ok := mapped[m]
		if !ok {
			return atom.Undefined, fmt.Errorf("member %s not yet imported", m)
		}
		out[i] = dst
	}
	if h, ok, err := findLink(ctx, q, v.Type, out); err != nil || ok {
		return h, err
	}
	return addLink(ctx, q, v.Type, out)
}
