package repo

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of a repository-layer failure.
type ErrorKind string

const (
	// ErrRepositoryNotFound indicates the path does not exist or is not a git repository.
	ErrRepositoryNotFound ErrorKind = "repository_not_found"

	// ErrPreconditionFailed indicates a mutating operation was refused because
	// the repository was not in the required state. Nothing was changed.
	ErrPreconditionFailed ErrorKind = "precondition_failed"

	// ErrStateMismatch indicates the repository is dirty or at a different
	// checkpoint than the caller expected.
	ErrStateMismatch ErrorKind = "state_mismatch"

	// ErrGitCommandFailed indicates an underlying git command exited non-zero
	// or could not be started. The message carries the captured stderr verbatim.
	ErrGitCommandFailed ErrorKind = "git_command_failed"
)

// Error is a repository-layer error with a kind the caller can dispatch on.
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

// Is reports whether target is a repo.Error of the same kind.
func (e *Error) Is(target error) bool {
	var repoErr *Error
	if errors.As(target, &repoErr) {
		return e.Kind == repoErr.Kind
	}
	return false
}

// newError creates a repository error with the given kind and message.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError wraps an underlying error with a repository error kind.
func wrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the error kind of err, or empty string if err is not a repo.Error.
func KindOf(err error) ErrorKind {
	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr.Kind
	}
	return ""
}
