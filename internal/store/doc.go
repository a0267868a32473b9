// Package store provides SQLite-backed durable storage for atoms.
//
// A Store implements atom.Store, atom.LinkFinder and the target-type index,
// so the matching engine can run directly against a database file.
//
// # Layout
//
//   - atoms: one row per node or link, keyed by an INTEGER handle
//   - outgoing: one row per (link, position) naming the member atom
//
// Node identity is enforced by a partial UNIQUE index on atom_key for
// kind = 1. Link keys are indexed but not unique; links are only shared
// when a loader asks for it through FindLink or Import.
//
// # Deterministic Reads
//
// Every multi-row query carries an ORDER BY on handle (and position for
// outgoing sets), so two runs over the same file enumerate identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The pool is limited to a single connection. Candidates therefore reads
// in keyset-paginated batches and closes each result set before yielding,
// which lets a consumer issue View or Incoming calls mid-iteration.
package store
