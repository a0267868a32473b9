// Package atom defines the identity and read-only view types shared by every
// hypergraph store and by the pattern-matching engine.
//
// This package contains type definitions only. All other internal packages
// import atom; atom imports nothing internal. This keeps atom the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Handle is an opaque identifier; equality is identity equality.
//   - View is an owned value snapshot. Stores copy outgoing sets so a caller
//     can never alias store-owned memory.
//   - Node names are NFC normalized at every store boundary.
//   - Handle 0 (Undefined) is never issued by a store.
package atom
