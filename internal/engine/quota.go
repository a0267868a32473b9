package engine

import (
	"errors"
	"fmt"
)

// comparisonQuota bounds the number of tree comparisons one Match call may
// make. Matching is exponential in the worst case; the quota turns a
// runaway search into an error instead of a hang.
//
// A zero limit means unlimited.
type comparisonQuota struct {
	limit   int
	current int
}

func newComparisonQuota(limit int) *comparisonQuota {
	return &comparisonQuota{limit: limit}
}

// Check counts one comparison and fails once the limit is passed.
func (q *comparisonQuota) Check() error {
	q.current++
	if q.limit > 0 && q.current > q.limit {
		return &BudgetExceededError{Comparisons: q.current, Limit: q.limit}
	}
	return nil
}

// BudgetExceededError is returned when a Match call exceeds the comparison
// budget set by WithMaxComparisons. Solutions already reported stay valid;
// enumeration stops.
type BudgetExceededError struct {
	QueryID     string
	Comparisons int
	Limit       int
}

// Error implements the error interface.
func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("query %s exceeded comparison budget: %d comparisons > %d limit",
		e.QueryID, e.Comparisons, e.Limit)
}

// IsBudgetExceeded reports whether err is a BudgetExceededError.
// Uses errors.As to handle wrapped errors.
func IsBudgetExceeded(err error) bool {
	var be *BudgetExceededError
	return errors.As(err, &be)
}
