package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func resultWith(bindings ...map[string]string) *Result {
	r := NewResult()
	for _, b := range bindings {
		r.Solutions = append(r.Solutions, SolutionRecord{Bindings: b})
	}
	return r
}

func TestEvaluateAssertions(t *testing.T) {
	dog := `(ConceptNode "dog")`
	cat := `(ConceptNode "cat")`
	two := resultWith(map[string]string{"X": dog}, map[string]string{"X": cat})

	failed := NewResult()
	failed.ErrorCode = "DISCONNECTED_QUERY"
	failed.ErrorMessage = "DISCONNECTED_QUERY: 1 clause(s) share no atom with the rest of the query"

	tests := []struct {
		name      string
		result    *Result
		assertion Assertion
		wantErr   string
	}{
		{"count ok", two, Assertion{Type: AssertSolutionCount, Count: 2}, ""},
		{"count wrong", two, Assertion{Type: AssertSolutionCount, Count: 1}, "Expected: 1 solution(s)"},
		{"no solutions ok", NewResult(), Assertion{Type: AssertNoSolutions}, ""},
		{"no solutions wrong", two, Assertion{Type: AssertNoSolutions}, "Actual: 2 solution(s)"},
		{"binding anywhere", two, Assertion{Type: AssertBinding, Variable: "X", Value: cat}, ""},
		{"binding missing", two, Assertion{Type: AssertBinding, Variable: "X", Value: `(ConceptNode "fish")`}, "in some solution"},
		{"binding at index", two, Assertion{Type: AssertBinding, Variable: "X", Value: dog, Index: intPtr(0)}, ""},
		{"binding wrong index", two, Assertion{Type: AssertBinding, Variable: "X", Value: dog, Index: intPtr(1)}, `Actual: $X = (ConceptNode "cat")`},
		{"binding index out of range", two, Assertion{Type: AssertBinding, Variable: "X", Value: dog, Index: intPtr(5)}, "only 2 solution(s)"},
		{"binding unbound", two, Assertion{Type: AssertBinding, Variable: "Y", Value: dog, Index: intPtr(0)}, "$Y = unbound"},
		{"error ok", failed, Assertion{Type: AssertError, Code: "DISCONNECTED_QUERY"}, ""},
		{"error wrong code", failed, Assertion{Type: AssertError, Code: "INVALID_QUERY"}, "Actual: DISCONNECTED_QUERY"},
		{"error expected", two, Assertion{Type: AssertError, Code: "INVALID_QUERY"}, "Actual: no error"},
		{"count on failed run", failed, Assertion{Type: AssertSolutionCount, Count: 0}, "Expected: query to run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(tt.result, []Assertion{tt.assertion})
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestAssertionErrorListsSolutions(t *testing.T) {
	err := &AssertionError{
		Type:     AssertSolutionCount,
		Expected: "1 solution(s)",
		Actual:   "2 solution(s)",
		Solutions: []SolutionRecord{
			{Bindings: map[string]string{"Y": "b", "X": "a"}},
			{Bindings: map[string]string{}},
		},
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: solution_count")
	assert.Contains(t, msg, "[0] $X = a, $Y = b")
	assert.Contains(t, msg, "[1] {}")
}
