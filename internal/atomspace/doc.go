// Package atomspace provides an in-memory hypergraph store.
//
// The AtomSpace keeps a handle table, outgoing and incoming adjacency, a
// per-type index used for candidate enumeration, and a target-type index
// that lists, for each type, the links whose outgoing set mentions an atom
// of that type.
//
// Identity rules:
//   - Nodes are unique per (type, NFC name); AddNode returns the existing
//     handle for a repeated pair.
//   - Links are not deduplicated: every AddLink issues a fresh handle, so a
//     query clause never coincides with the data it is matched against.
//     FindLink looks up an existing link with the same type and outgoing set
//     for callers that want set semantics.
//
// Handles are issued sequentially from 1 and every enumeration (Candidates,
// Incoming, LinksTargeting, Handles) is in handle order, which makes match
// results reproducible.
//
// The AtomSpace is safe for concurrent use. Readers take a shared lock and
// always receive copies.
package atomspace
