// Package harness runs YAML match scenarios against the engine.
//
// A scenario names CUE graph files, the query to run and assertions on
// the result:
//
//	name: kinds-of-animal
//	description: Every direct subtype of animal
//	graphs: [../graphs/pets.cue]
//	query: kinds
//	backend: sqlite
//	assertions:
//	  - type: solution_count
//	    count: 2
//	  - type: binding
//	    variable: X
//	    value: (ConceptNode "dog")
//
// Each run starts from a fresh store, either the in-memory atomspace or an
// in-memory SQLite database, and uses a fixed query ID so logs and golden
// snapshots are reproducible. RunWithGolden compares the rendered solutions
// against testdata/golden/<name>.golden.
package harness
