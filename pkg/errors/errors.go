// Package errors provides structured error types for starneighbours.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Propagation of upstream HTTP status and body to callers
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - UPSTREAM_*: The remote API answered, but not with what we needed
//   - NETWORK_*: The remote API could not be reached
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid threshold: %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Surface a non-2xx response from the remote API
//	err := errors.Upstream(resp.StatusCode, body, "GET %s", url)
//	status := errors.HTTPStatus(err) // resp.StatusCode
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidRepo  Code = "INVALID_REPO"
	ErrCodeInvalidMode  Code = "INVALID_MODE"

	// Upstream errors
	ErrCodeUpstreamHTTP    Code = "UPSTREAM_HTTP"
	ErrCodeUpstreamQuery   Code = "UPSTREAM_QUERY"
	ErrCodeUpstreamPayload Code = "UPSTREAM_PAYLOAD"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
	Status  int    // HTTP status to surface to callers (0 = derive from Code)
	Detail  any    // Upstream payload: decoded JSON when possible, raw text otherwise
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
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

// Upstream creates an UPSTREAM_HTTP error carrying the remote status and body.
// A JSON body is kept as a decoded value so it can be re-emitted verbatim.
func Upstream(status int, body []byte, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeUpstreamHTTP,
		Message: fmt.Sprintf(format, args...),
		Status:  status,
		Detail:  decodeDetail(body),
	}
}

// Query creates an UPSTREAM_QUERY error for a query response that carries an
// error payload. The status is always 500, as the remote answered 200.
func Query(detail any, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeUpstreamQuery,
		Message: fmt.Sprintf(format, args...),
		Status:  http.StatusInternalServerError,
		Detail:  detail,
	}
}

func decodeDetail(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
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
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// GetDetail returns the upstream detail attached to err, or its user message
// when no detail was recorded.
func GetDetail(err error) any {
	var e *Error
	if errors.As(err, &e) && e.Detail != nil {
		return e.Detail
	}
	return UserMessage(err)
}

// HTTPStatus maps err to the HTTP status a server should answer with.
// An explicit Status wins; otherwise the code decides.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if e.Status != 0 {
		return e.Status
	}
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidRepo, ErrCodeInvalidMode:
		return http.StatusUnprocessableEntity
	case ErrCodeNetwork, ErrCodeUpstreamPayload:
		return http.StatusBadGateway
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
