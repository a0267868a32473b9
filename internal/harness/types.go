package harness

import "github.com/roach88/hypermatch/internal/engine"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Solutions holds the rendered solutions in enumeration order.
	Solutions []SolutionRecord `json:"solutions"`

	// Stats are the engine counters for the run.
	Stats engine.Stats `json:"stats"`

	// ErrorCode is the query error code when the run failed.
	ErrorCode string `json:"error_code,omitempty"`

	// ErrorMessage is the full query error text when the run failed.
	ErrorMessage string `json:"error_message,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Solutions: []SolutionRecord{},
		Errors:    []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
