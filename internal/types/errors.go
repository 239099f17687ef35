package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// ErrorKind identifies why a workflow step failed.
// Kinds are strings so they read naturally in log output.
type ErrorKind string

const (
	// KindEmptyScanInput means the scan input was empty after trimming.
	KindEmptyScanInput ErrorKind = "EMPTY_SCAN_INPUT"

	// KindIOFailure means the temp artifact could not be written.
	KindIOFailure ErrorKind = "IO_FAILURE"

	// KindNoDestinationConfigured means Network.DestDirectory is empty.
	KindNoDestinationConfigured ErrorKind = "NO_DESTINATION_CONFIGURED"

	// KindInvalidDestinationPath means the destination failed path validation.
	KindInvalidDestinationPath ErrorKind = "INVALID_DESTINATION_PATH"

	// KindCopyFailure means the destination could not be created or written.
	KindCopyFailure ErrorKind = "COPY_FAILURE"

	// KindConfigNotFound means the configuration file does not exist.
	KindConfigNotFound ErrorKind = "CONFIG_NOT_FOUND"

	// KindUnexpectedFailure covers everything else.
	KindUnexpectedFailure ErrorKind = "UNEXPECTED_FAILURE"
)

// Error is a classified failure. Op names the step that failed and Err
// carries the underlying cause, if any.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &types.Error{Kind: types.KindCopyFailure}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// NewError builds a classified error.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
// A nil error has no kind; unclassified errors are KindUnexpectedFailure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpectedFailure
}
