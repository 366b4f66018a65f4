// Package errors provides structured error types for the tierlist service.
//
// Error codes let the CLI and the HTTP glue tell input problems apart from
// rendering failures without matching on message text:
//   - INVALID_*: input validation failures
//   - NO_RANKS: a submission with nothing to render
//   - NOT_FOUND: unknown download token or file
//   - ENCODE_FAILED: the final image could not be produced
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoRanks, "no ranks selected")
//	if errors.Is(err, errors.ErrCodeNoRanks) {
//	    // respond 400
//	}
//
//	err := errors.Wrap(errors.ErrCodeEncode, origErr, "encode %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidTiers  Code = "INVALID_TIERS"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidToken  Code = "INVALID_TOKEN"
	ErrCodeNoRanks       Code = "NO_RANKS"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Output errors
	ErrCodeEncode Code = "ENCODE_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInput reports whether err is a caller mistake rather than a failure of
// the service.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidTiers, ErrCodeInvalidFormat, ErrCodeNoRanks:
		return true
	}
	return false
}
