// Package errors provides structured error types for regionmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Layout-time conditions such as palette exhaustion or a margin pass cap are
// never reported as errors; they degrade the result and are logged.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidShape, "region %s: edge is not axis-aligned", id)
//	if errors.Is(err, errors.ErrCodeInvalidShape) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidShape    Code = "INVALID_SHAPE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidPalette  Code = "INVALID_PALETTE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
//
// Subject names the region or statement the error is about, when there is
// one. API clients use it to point at the offending element without parsing
// the message.
type Error struct {
	Code    Code
	Subject string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// For sets the subject of e and returns it.
func (e *Error) For(subject string) *Error {
	e.Subject = subject
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error. The subject of a
// wrapped *Error carries over.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Subject: Subject(cause),
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// Subject returns the subject of the first *Error in err's chain that has
// one.
func Subject(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Subject != "" {
			return e.Subject
		}
		err = e.Cause
	}
	return ""
}

// UserMessage returns the message without the code prefix. Plain errors
// return their string as-is.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// statusByCode maps codes to the HTTP status used by the API server.
var statusByCode = map[Code]int{
	ErrCodeInvalidInput:    400,
	ErrCodeInvalidShape:    400,
	ErrCodeInvalidConfig:   400,
	ErrCodeInvalidFormat:   400,
	ErrCodeInvalidStrategy: 400,
	ErrCodeInvalidPalette:  400,
	ErrCodeNotFound:        404,
	ErrCodeFileNotFound:    404,
	ErrCodeUnsupported:     501,
}

// HTTPStatus maps an error to its HTTP status. Unknown codes and plain
// errors map to 500.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[GetCode(err)]; ok {
		return status
	}
	return 500
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
