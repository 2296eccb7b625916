// Package errors provides structured error types for castgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the explorer and the analysis service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages (what the fetch state shows)
//
// # Fetch Failures
//
// Every failure of the remote analysis call falls into one of three codes:
//
//	ErrCodeNetwork            the request could not complete
//	ErrCodeServer             non-2xx response, optionally with a server reason
//	ErrCodeMalformedResponse  the response body is missing the expected shape
//
// The distinction only affects the message text. [UserMessage] returns the
// text the fetch controller publishes in its Error state.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "Book ID must be an integer")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "analysis service unreachable")
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidBookID Code = "INVALID_BOOK_ID"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeBookNotFound Code = "BOOK_NOT_FOUND"

	// Remote call errors
	ErrCodeNetwork           Code = "NETWORK_ERROR"
	ErrCodeServer            Code = "SERVER_ERROR"
	ErrCodeMalformedResponse Code = "MALFORMED_RESPONSE"
	ErrCodeTimeout           Code = "TIMEOUT"

	// Analysis errors
	ErrCodeExtraction Code = "EXTRACTION_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// FallbackMessage is published when a failed analysis call carries no reason.
const FallbackMessage = "Failed to fetch graph data"

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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
// A nil error or an empty message yields [FallbackMessage].
func UserMessage(err error) string {
	if err == nil {
		return FallbackMessage
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message == "" {
			return FallbackMessage
		}
		return e.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// StatusError records a non-2xx HTTP response from a remote service.
type StatusError struct {
	StatusCode int    // HTTP status code
	Reason     string // Server-supplied reason, empty if none was sent
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// Server builds an ErrCodeServer error for a non-2xx response.
// The user message is the server's reason, or [FallbackMessage] when the
// server did not send one.
func Server(status int, reason string) *Error {
	msg := reason
	if msg == "" {
		msg = FallbackMessage
	}
	return &Error{
		Code:    ErrCodeServer,
		Message: msg,
		Cause:   &StatusError{StatusCode: status, Reason: reason},
	}
}

// StatusCode returns the HTTP status recorded in err's chain, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
