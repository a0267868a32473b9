// Package engine implements hypergraph pattern matching.
//
// A query is a set of clauses, each the root of a small tree of atoms that
// lives in the same store as the data, plus a set of variable atoms. The
// engine finds every grounding of the variables under which each clause is
// structurally identical to some data atom.
//
// ARCHITECTURE:
//
// Candidate Loop:
// Matcher.Match asks the store for every atom with the type of the first
// clause root and starts one search attempt per candidate. Atoms that are
// themselves part of the query are never candidates.
//
// Backtracking Search:
// An attempt compares the clause root with the candidate, then for later
// clauses starts at a join atom (shared with an already solved clause) and
// climbs the incoming sets of the pattern and the data in lock-step until
// the clause root is reached. Each step owns its frame on the Go call
// stack; bindings are recorded on a trail and undone on return, so failed
// branches leave no residue.
//
// Clause Scheduling:
// The RootMap lists, for every atom in the query, the clause roots that
// contain it. After a clause is solved the scheduler picks the first atom
// (in clause declaration then preorder traversal order) that belongs to
// both a solved and an unsolved clause.
//
// CONCURRENCY:
//
// A Matcher holds only immutable configuration. All mutable state lives in
// a searchContext created per Match call, so independent queries may run
// concurrently against one read-only store (see MatchAll).
//
// CANCELLATION:
//
// The SolutionFunc returns stop=true to end enumeration. The context is
// checked between candidates. WithMaxComparisons caps the work of one call
// and ends it with a BudgetExceededError.
package engine
