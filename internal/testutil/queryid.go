package testutil

// FixedQueryID generates the same query ID every time.
//
// Unlike engine.FixedGenerator which returns IDs in sequence, this generator
// never runs out, so one Matcher can serve any number of queries while its
// log output stays byte-identical across runs.
//
// Thread-safety: FixedQueryID is stateless and safe for concurrent use.
type FixedQueryID struct {
	id string
}

// NewFixedQueryID creates a new fixed query ID generator.
//
// If id is empty, Generate() returns "test-query-default".
func NewFixedQueryID(id string) *FixedQueryID {
	if id == "" {
		id = "test-query-default"
	}
	return &FixedQueryID{id: id}
}

// Generate returns the fixed ID.
//
// Implements engine.QueryIDGenerator interface.
func (g *FixedQueryID) Generate() string {
	return g.id
}
