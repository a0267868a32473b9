// Package traverse provides visitor combinators over the incidence graph of
// a hypergraph store.
//
// Every combinator calls its visitor once per element, in order, until the
// visitor returns stop=true or an error. The combinator then returns
// immediately with the same signal. This "stop on first true" contract lets
// callers express both searches (stop when found) and exhaustive walks
// (never stop) with one shape.
//
// Visitors receive handles, never references into store memory.
package traverse
