// Package compiler turns CUE documents into graph data and queries.
//
// A document has two optional top-level fields:
//
//	atoms: [
//		{link: "InheritanceLink", out: [
//			{node: "ConceptNode", name: "dog"},
//			{node: "ConceptNode", name: "animal"},
//		]},
//	]
//
//	queries: kinds: {
//		variables: ["X"]
//		clauses: [
//			{link: "InheritanceLink", out: [{var: "X"}, {node: "ConceptNode", name: "animal"}]},
//		]
//	}
//
// atoms may also be a struct of named lists (atoms: pets: [...]), which
// lets several files of one package each contribute atoms.
//
// Every term has exactly one of node, link or var. Errors carry the CUE
// source position of the offending value.
package compiler
