package errors

import (
	"errors"
	"fmt"
)

// Error represents a PostgreSQL-compatible error with SQLSTATE code.
type Error struct {
	Code    string // SQLSTATE code
	Message string // Primary error message
	Detail  string // Optional detailed error message
	Hint    string // Optional hint message
	Routine string // Source code routine name
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (SQLSTATE %s) DETAIL: %s", e.Message, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
}

// New creates a new Error with the given code and message.
func New(code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail adds detail to the error.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithDetailf adds formatted detail to the error.
func (e *Error) WithDetailf(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint adds a hint to the error.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithRoutine sets the routine that produced the error.
func (e *Error) WithRoutine(routine string) *Error {
	e.Routine = routine
	return e
}

// Code returns the SQLSTATE code carried by err, or the empty string if err
// is not an *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries the given SQLSTATE code.
func HasCode(err error, code string) bool {
	return Code(err) == code
}
