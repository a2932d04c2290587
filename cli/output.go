package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/saloonhub/saloonstore/saloon"
)

// Exit codes for CLI commands.
const (
	ExitSuccess     = 0 // Successful execution
	ExitFailure     = 1 // Internal failure (storage, configuration, etc.)
	ExitCallerError = 2 // The store rejected the request (not found, not authorized, bad request)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for a nil error and ExitFailure if the
// error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError

	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

// Response is the JSON document written to stdout by every command.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// Error describes a rejected request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResult is the payload of the list command.
type ListResult struct {
	Total   uint64          `json:"total"`
	Offset  uint64          `json:"offset"`
	Saloons []saloon.Saloon `json:"saloons"`
}

type output struct {
	w io.Writer
}

func (o output) success(data interface{}) error {
	return o.encode(Response{Status: "ok", Data: data})
}

// result writes the outcome of a store operation. Errors the store
// reports to callers are written to the output and turned into an
// ExitError with ExitCallerError. Anything else is returned as is.
func (o output) result(data interface{}, err error) error {
	if err == nil {
		return o.success(data)
	}

	code := errorCode(err)

	if code == "" {
		return err
	}

	if encodeErr := o.encode(Response{Status: "error", Error: &Error{Code: code, Message: err.Error()}}); encodeErr != nil {
		return encodeErr
	}

	return WrapExitError(ExitCallerError, code, err)
}

func (o output) encode(response Response) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(response)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, saloon.ErrNotFound):
		return "not_found"
	case errors.Is(err, saloon.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, saloon.ErrBadRequest):
		return "bad_request"
	}

	return ""
}
