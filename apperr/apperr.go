// Package apperr holds the error taxonomy shared by the store, the core
// services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced school/report/user id does not exist.
	ErrNotFound = errors.New("NOT_FOUND")
	// ErrInvalidArgument: a malformed or missing input (empty rejection
	// reason, unknown month, bad period selector).
	ErrInvalidArgument = errors.New("INVALID_ARGUMENT")
	// ErrConflict: the operation clashes with the current state of a
	// record (duplicate report for a period, wrong lifecycle state).
	ErrConflict = errors.New("CONFLICT")
	// ErrTimeout: a store lookup exceeded its time budget. Recoverable;
	// identity resolution falls through to the next step.
	ErrTimeout = errors.New("TIMEOUT")
	// ErrUpstream: the store or auth provider failed in a way not
	// covered above.
	ErrUpstream = errors.New("UPSTREAM")
)

// NotFound wraps ErrNotFound with a short subject, e.g. "report abc123".
func NotFound(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, a...))
}

func InvalidArgument(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, a...))
}

func Conflict(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, a...))
}

func Timeout(err error) error {
	return fmt.Errorf("%w: %v", ErrTimeout, err)
}

func Upstream(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

// Code returns the wire code for err, defaulting to UPSTREAM.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	default:
		return "UPSTREAM"
	}
}
