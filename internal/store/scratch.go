package store

import (
	"context"
	"fmt"

	"github.com/roach88/hypermatch/internal/atom"
)

// Mark returns the newest handle in the store, or atom.Undefined when the
// store is empty. Pass it to Truncate to discard everything added later.
func (s *Store) Mark(ctx context.Context) (atom.Handle, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM atoms`).Scan(&id)
	if err != nil {
		return atom.Undefined, fmt.Errorf("read mark: %w", err)
	}
	return atom.Handle(id), nil
}

// Truncate deletes every atom newer than mark.
//
// Handles only grow, so atoms at or below mark never reference the
// deleted ones. Used to drop query atoms after a one-off match.
func (s *Store) Truncate(ctx context.Context, mark atom.Handle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin truncate: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outgoing WHERE link_id > ?`, int64(mark)); err != nil {
		return fmt.Errorf("truncate outgoing: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM atoms WHERE id > ?`, int64(mark)); err != nil {
		return fmt.Errorf("truncate atoms: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit truncate: %w", err)
	}
	return nil
}
