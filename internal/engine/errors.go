package engine

import (
	"errors"
	"fmt"
	"strconv"
)

// QueryError represents a query that could not run to completion.
//
// Query errors include:
//   - Disconnected query: some clause shares no atom with the rest
//   - Invalid query: a clause root is undefined, repeated or a variable
//   - Store access: the store failed while reading atoms
//
// A structural mismatch is never an error; it just yields no solution.
// An empty clause set is not an error either (see ErrCodeEmptyQuery).
type QueryError struct {
	// Code identifies the error category.
	Code QueryErrorCode

	// Message is a human-readable description.
	Message string

	// QueryID identifies the Match call that failed.
	QueryID string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any (store errors are joined here).
	Err error
}

// QueryErrorCode categorizes query errors.
type QueryErrorCode string

const (
	// ErrCodeEmptyQuery names the empty clause set. Match never returns it:
	// an empty query has no solutions and returns nil.
	ErrCodeEmptyQuery QueryErrorCode = "EMPTY_QUERY"

	// ErrCodeDisconnected indicates a clause cannot be reached from the
	// first clause through shared atoms.
	ErrCodeDisconnected QueryErrorCode = "DISCONNECTED_QUERY"

	// ErrCodeInvalidQuery indicates malformed input to Match.
	ErrCodeInvalidQuery QueryErrorCode = "INVALID_QUERY"

	// ErrCodeStoreAccess indicates the store failed during matching.
	ErrCodeStoreAccess QueryErrorCode = "STORE_ACCESS"

	// ErrCodeBudgetExceeded names a BudgetExceededError in reports. Match
	// returns the typed error, not a QueryError.
	ErrCodeBudgetExceeded QueryErrorCode = "BUDGET_EXCEEDED"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.QueryID != "" {
		msg = fmt.Sprintf("%s (query=%s)", msg, e.QueryID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause so errors.Is sees store errors.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsDisconnected returns true if the error is a disconnected query error.
// Uses errors.As to handle wrapped errors.
func IsDisconnected(err error) bool {
	return hasCode(err, ErrCodeDisconnected)
}

// IsInvalidQuery returns true if the error is an invalid query error.
func IsInvalidQuery(err error) bool {
	return hasCode(err, ErrCodeInvalidQuery)
}

// IsStoreError returns true if the error is a store access error.
func IsStoreError(err error) bool {
	return hasCode(err, ErrCodeStoreAccess)
}

func hasCode(err error, code QueryErrorCode) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

// NewDisconnectedError creates a QueryError listing the clause roots that
// share no atom with the first clause.
func NewDisconnectedError(queryID string, unreachable []string) *QueryError {
	details := make(map[string]string, len(unreachable))
	for i, root := range unreachable {
		details["clause."+strconv.Itoa(i)] = root
	}
	return &QueryError{
		Code:    ErrCodeDisconnected,
		Message: fmt.Sprintf("%d clause(s) share no atom with the rest of the query", len(unreachable)),
		QueryID: queryID,
		Details: details,
	}
}

// NewInvalidQueryError creates a QueryError for malformed input.
func NewInvalidQueryError(queryID, message string) *QueryError {
	return &QueryError{
		Code:    ErrCodeInvalidQuery,
		Message: message,
		QueryID: queryID,
	}
}

// NewStoreError creates a QueryError wrapping one or more store failures.
func NewStoreError(queryID string, errs ...error) *QueryError {
	return &QueryError{
		Code:    ErrCodeStoreAccess,
		Message: fmt.Sprintf("%d store failure(s) during matching", len(errs)),
		QueryID: queryID,
		Details: map[string]string{"failures": strconv.Itoa(len(errs))},
		Err:     errors.Join(errs...),
	}
}
