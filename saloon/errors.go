package saloon

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the kind of error returned when a referenced
	// saloon, or a named service within one, does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized is the kind of error returned when the caller
	// is not the owner of the saloon it tries to change
	ErrNotAuthorized = errors.New("not authorized")
	// ErrBadRequest is the kind of error returned when a payload
	// fails validation
	ErrBadRequest = errors.New("bad request")
)

// Error is an error reported to the caller of a store operation.
// Kind is one of ErrNotFound, ErrNotAuthorized or ErrBadRequest so
// callers can branch with errors.Is. Msg names the offending id or
// field.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound creates an ErrNotFound error
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// NotAuthorized creates an ErrNotAuthorized error
func NotAuthorized(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotAuthorized, Msg: fmt.Sprintf(format, args...)}
}

// BadRequest creates an ErrBadRequest error
func BadRequest(format string, args ...interface{}) error {
	return &Error{Kind: ErrBadRequest, Msg: fmt.Sprintf(format, args...)}
}

// IsCallerError returns true if err is one of the errors
// reported to callers rather than an internal failure
func IsCallerError(err error) bool {
	var e *Error

	return errors.As(err, &e)
}
