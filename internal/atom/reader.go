package atom

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// ErrNoSuchAtom is returned by stores for handles they never issued
// (or issued by a different store).
var ErrNoSuchAtom = errors.New("no such atom")

// NoSuchAtom wraps ErrNoSuchAtom with the offending handle.
func NoSuchAtom(h Handle) error {
	return fmt.Errorf("%w: %s", ErrNoSuchAtom, h)
}

// Reader is the read-only store contract consumed by traversal and matching.
//
// Implementations must be safe for concurrent readers. The pattern-matching
// engine never mutates a store through this interface.
type Reader interface {
	// View returns a snapshot of the atom.
	View(ctx context.Context, h Handle) (View, error)

	// Outgoing returns a copy of the ordered outgoing set (empty for nodes).
	Outgoing(ctx context.Context, h Handle) ([]Handle, error)

	// Incoming returns the links that list h in their outgoing set,
	// each link at most once, in handle order.
	Incoming(ctx context.Context, h Handle) ([]Handle, error)

	// Candidates lazily enumerates every atom of exactly type t.
	// The sequence is finite and restartable; order is store-defined.
	Candidates(ctx context.Context, t Type) iter.Seq2[Handle, error]
}

// Writer is implemented by stores that can create atoms.
// Adding a node that already exists returns the existing handle. Links are
// never deduplicated; use LinkFinder for set semantics.
type Writer interface {
	AddNode(ctx context.Context, t Type, name string) (Handle, error)
	AddLink(ctx context.Context, t Type, outgoing ...Handle) (Handle, error)
}

// Store combines Reader and Writer.
type Store interface {
	Reader
	Writer
}

// LinkFinder is implemented by stores that can look up an existing link by
// type and outgoing set. Loaders use it to avoid duplicating data links.
type LinkFinder interface {
	FindLink(ctx context.Context, t Type, outgoing ...Handle) (Handle, bool, error)
}
