// Package query defines the term model for graph data and pattern queries.
//
// A Term describes an atom before it exists in a store:
//   - Node: a leaf with a type and a name
//   - Link: a typed, ordered list of member terms
//   - Var:  a named query variable
//
// Ground terms (no Var) are data. A Query is a set of clause terms plus the
// variables they may use. Materialize turns a Query into store handles for
// engine.Matcher; InsertGround loads data.
//
// # Materialization
//
// Nodes are shared with the data: the clause node (ConceptNode "animal") is
// the very atom the data uses. Clause links are always fresh atoms, so a
// clause is never the data it is supposed to match. Variables become
// nodes of type VariableNode.
package query
