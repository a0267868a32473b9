package harness

import (
	"fmt"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type      string           // Assertion type for categorization
	Expected  string           // Human-readable expected outcome
	Actual    string           // Human-readable actual outcome
	Solutions []SolutionRecord // All solutions for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Solutions) > 0 {
		fmt.Fprintf(&buf, "\nSolutions:\n")
		for i, s := range e.Solutions {
			fmt.Fprintf(&buf, "  [%d] %s\n", i, formatBindings(s.Bindings))
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	// Only error assertions may look at a failed run.
	if a.Type != AssertError && result.ErrorCode != "" {
		return &AssertionError{
			Type:     a.Type,
			Expected: "query to run",
			Actual:   result.ErrorMessage,
		}
	}

	switch a.Type {
	case AssertSolutionCount:
		return assertSolutionCount(result, a)
	case AssertNoSolutions:
		return assertSolutionCount(result, Assertion{Type: AssertNoSolutions, Count: 0})
	case AssertBinding:
		return assertBinding(result, a)
	case AssertError:
		return assertError(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertSolutionCount(result *Result, a Assertion) error {
	if len(result.Solutions) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:      a.Type,
		Expected:  fmt.Sprintf("%d solution(s)", a.Count),
		Actual:    fmt.Sprintf("%d solution(s)", len(result.Solutions)),
		Solutions: result.Solutions,
	}
}

// assertBinding checks that the variable is bound to the value, in the
// given solution or in any solution.
func assertBinding(result *Result, a Assertion) error {
	if a.Index != nil {
		i := *a.Index
		if i >= len(result.Solutions) {
			return &AssertionError{
				Type:      a.Type,
				Expected:  fmt.Sprintf("solution %d with $%s = %s", i, a.Variable, a.Value),
				Actual:    fmt.Sprintf("only %d solution(s)", len(result.Solutions)),
				Solutions: result.Solutions,
			}
		}
		got, ok := result.Solutions[i].Bindings[a.Variable]
		if ok && got == a.Value {
			return nil
		}
		if !ok {
			got = "unbound"
		}
		return &AssertionError{
			Type:      a.Type,
			Expected:  fmt.Sprintf("$%s = %s in solution %d", a.Variable, a.Value, i),
			Actual:    fmt.Sprintf("$%s = %s", a.Variable, got),
			Solutions: result.Solutions,
		}
	}

	for _, s := range result.Solutions {
		if s.Bindings[a.Variable] == a.Value {
			return nil
		}
	}
	return &AssertionError{
		Type:      a.Type,
		Expected:  fmt.Sprintf("$%s = %s in some solution", a.Variable, a.Value),
		Actual:    "not found",
		Solutions: result.Solutions,
	}
}

func assertError(result *Result, a Assertion) error {
	if result.ErrorCode == a.Code {
		return nil
	}
	actual := "no error"
	if result.ErrorCode != "" {
		actual = result.ErrorCode
	}
	return &AssertionError{
		Type:      a.Type,
		Expected:  "error " + a.Code,
		Actual:    actual,
		Solutions: result.Solutions,
	}
}

// formatBindings renders bindings sorted by variable name.
func formatBindings(b map[string]string) string {
	if len(b) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "$" + n + " = " + b[n]
	}
	return strings.Join(parts, ", ")
}
