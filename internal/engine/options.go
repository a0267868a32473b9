package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/hypermatch/internal/atom"
)

// NodeMatcher decides whether a non-variable pattern node matches a data
// node of the same type. It reports true for a mismatch.
type NodeMatcher func(ctx context.Context, r atom.Reader, pred, cand atom.View) (mismatch bool, err error)

// DefaultNodeMatch matches nodes by literal (Type, Name) equality.
func DefaultNodeMatch(_ context.Context, _ atom.Reader, pred, cand atom.View) (bool, error) {
	return pred.Type != cand.Type || pred.Name != cand.Name, nil
}

// VariablePolicy controls how a variable that occurs more than once in a
// query is unified.
type VariablePolicy int

const (
	// VariablesConsistent rejects a binding that disagrees with one already
	// made in the same attempt, and never binds a variable to a variable.
	VariablesConsistent VariablePolicy = iota

	// VariablesLenient overwrites earlier bindings. Only binding a variable
	// to itself is rejected. A variable used twice is not checked for
	// agreement, so solutions may be inconsistent.
	VariablesLenient
)

// String returns "consistent" or "lenient".
func (p VariablePolicy) String() string {
	if p == VariablesLenient {
		return "lenient"
	}
	return "consistent"
}

// StoreErrorPolicy controls what Match does when the store fails while a
// candidate is being examined.
type StoreErrorPolicy int

const (
	// StoreErrorSkipCandidate abandons the current candidate, logs the
	// failure and moves on. Match reports all failures once enumeration
	// ends.
	StoreErrorSkipCandidate StoreErrorPolicy = iota

	// StoreErrorAbort stops the query at the first failure.
	StoreErrorAbort
)

// Option configures a Matcher.
type Option func(*Matcher)

// WithNodeMatcher replaces DefaultNodeMatch.
func WithNodeMatcher(fn NodeMatcher) Option {
	return func(m *Matcher) {
		if fn != nil {
			m.nodeMatch = fn
		}
	}
}

// WithVariablePolicy sets how repeated variables are unified.
//
// Default: VariablesConsistent
func WithVariablePolicy(p VariablePolicy) Option {
	return func(m *Matcher) {
		m.varPolicy = p
	}
}

// WithStoreErrorPolicy sets how store failures are handled.
//
// Default: StoreErrorSkipCandidate
func WithStoreErrorPolicy(p StoreErrorPolicy) Option {
	return func(m *Matcher) {
		m.storePolicy = p
	}
}

// WithQueryIDGenerator sets the generator used to tag each Match call.
//
// Default: UUIDv7Generator
func WithQueryIDGenerator(g QueryIDGenerator) Option {
	return func(m *Matcher) {
		if g != nil {
			m.ids = g
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMaxComparisons bounds the tree comparisons one Match call may make.
// Match returns a BudgetExceededError when the bound is passed.
//
// Default: 0 (unlimited)
func WithMaxComparisons(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.maxCompares = n
		}
	}
}
