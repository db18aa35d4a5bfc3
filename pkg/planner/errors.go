package planner

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of a planning failure.
type ErrorKind string

const (
	// ErrInvalidContext indicates the TaskContext failed precondition checks
	// before any model call was made.
	ErrInvalidContext ErrorKind = "invalid_context"

	// ErrEmptyPlan indicates the model response contained no steps.
	ErrEmptyPlan ErrorKind = "empty_plan"

	// ErrMissingReasoning indicates the plan carried no reasoning text.
	ErrMissingReasoning ErrorKind = "missing_reasoning"

	// ErrInvalidPointEstimate indicates the estimated points were not a
	// positive integer.
	ErrInvalidPointEstimate ErrorKind = "invalid_point_estimate"

	// ErrBudgetExceeded indicates the plan's estimate does not fit in the
	// remaining budget.
	ErrBudgetExceeded ErrorKind = "budget_exceeded"

	// ErrInsufficientCriteriaCoverage indicates too few validation criteria
	// were addressed by the plan's steps.
	ErrInsufficientCriteriaCoverage ErrorKind = "insufficient_criteria_coverage"

	// ErrDecompositionFailed wraps transport or model failures from the
	// completion call itself.
	ErrDecompositionFailed ErrorKind = "decomposition_failed"
)

// Error is a planning-layer error with a kind the caller can dispatch on.
// It supports errors.Is comparison by kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a planner.Error of the same kind.
func (e *Error) Is(target error) bool {
	var planErr *Error
	if errors.As(target, &planErr) {
		return e.Kind == planErr.Kind
	}
	return false
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the error kind of err, or empty string if err is not a planner.Error.
func KindOf(err error) ErrorKind {
	var planErr *Error
	if errors.As(err, &planErr) {
		return planErr.Kind
	}
	return ""
}
