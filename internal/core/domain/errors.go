// Package domain defines the core domain models for deskshare.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes follow the format DS-<AREA>-<status><n>, e.g. "DS-ADMN-4010".
type DomainError struct {
	Code    string // Error code (e.g., "DS-CMD-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of e carrying details. The catalogue values
// below are shared, so they are never modified in place.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy of e wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// Public returns the message safe to show to a remote caller:
// the details when present, otherwise the message.
func (e *DomainError) Public() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Admission errors. All of them leave session state untouched.

var (
	// ErrTokenInvalid indicates the supplied token does not match.
	ErrTokenInvalid = NewDomainError("DS-ADMN-4010", "invalid token")

	// ErrTokenConsumed indicates the token was already used to claim a session.
	ErrTokenConsumed = NewDomainError("DS-ADMN-4011", "token already used")

	// ErrUnauthorized indicates the caller does not hold the active session.
	ErrUnauthorized = NewDomainError("DS-ADMN-4012", "Session active by another user or unauthorized IP")

	// ErrSessionActive indicates another party already holds the session.
	ErrSessionActive = NewDomainError("DS-ADMN-4090", "session already active")
)

// Capture errors (CAPT).

var (
	// ErrCaptureFailed indicates the screen grab for one frame failed.
	ErrCaptureFailed = NewDomainError("DS-CAPT-5000", "screen capture failed")

	// ErrEncodeFailed indicates one frame could not be encoded.
	ErrEncodeFailed = NewDomainError("DS-CAPT-5001", "frame encoding failed")

	// ErrNoMonitor indicates no capturable monitor is attached.
	ErrNoMonitor = NewDomainError("DS-CAPT-5030", "no monitor available")
)

// Stream errors (STRM).

var (
	// ErrConnectionClosed indicates a frame was sent to a closed connection.
	ErrConnectionClosed = NewDomainError("DS-STRM-5000", "connection closed")
)

// Command errors. 4xxx codes are caller mistakes, 5xxx are execution failures.

var (
	// ErrMonitorOutOfRange indicates a monitor index outside 1..count.
	ErrMonitorOutOfRange = NewDomainError("DS-CMD-4000", "monitor index out of range")

	// ErrEmptyText indicates type_text was called without text.
	ErrEmptyText = NewDomainError("DS-CMD-4001", "text is empty")

	// ErrNoKeys indicates type_key was called without keys.
	ErrNoKeys = NewDomainError("DS-CMD-4002", "No keys sent")

	// ErrInvalidCommand indicates an empty or disallowed shell command.
	ErrInvalidCommand = NewDomainError("DS-CMD-4003", "Invalid command")

	// ErrZeroViewport indicates a click against a zero-sized viewport.
	ErrZeroViewport = NewDomainError("DS-CMD-4004", "viewport width and height must be positive")

	// ErrUnknownButton indicates an unsupported mouse button name.
	ErrUnknownButton = NewDomainError("DS-CMD-4005", "unknown mouse button")

	// ErrBadRequest indicates a malformed request body.
	ErrBadRequest = NewDomainError("DS-CMD-4006", "malformed request body")

	// ErrCommandFailed indicates the injected action or subprocess failed.
	ErrCommandFailed = NewDomainError("DS-CMD-5000", "command execution failed")
)

// System errors (SYS).

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("DS-SYS-5000", "internal server error")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("DS-SYS-4290", "too many requests")
)
