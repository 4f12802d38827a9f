package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("DS-TEST-1000", "test message"),
			expected: "[DS-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("DS-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[DS-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("DS-TEST-1000", "message 1")
	err2 := NewDomainError("DS-TEST-1000", "message 2")
	err3 := NewDomainError("DS-TEST-1001", "message 1")

	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := NewDomainError("DS-TEST-1000", "wrapper").WithCause(cause)

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := NewDomainError("DS-TEST-1000", "no cause")
	if errors.Unwrap(errNoCause) != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestDomainError_WithDetails(t *testing.T) {
	original := NewDomainError("DS-TEST-1000", "original message")
	withDetails := original.WithDetails("additional details")

	if original.Details != "" {
		t.Error("WithDetails should not modify original error")
	}
	if withDetails.Details != "additional details" {
		t.Errorf("Details = %q, want %q", withDetails.Details, "additional details")
	}
	if withDetails.Code != original.Code {
		t.Errorf("Code = %q, want %q", withDetails.Code, original.Code)
	}
}

func TestDomainError_Public(t *testing.T) {
	if got := ErrNoKeys.Public(); got != "No keys sent" {
		t.Errorf("Public() = %q, want %q", got, "No keys sent")
	}
	if got := ErrCommandFailed.WithDetails("exit status 2").Public(); got != "exit status 2" {
		t.Errorf("Public() = %q, want %q", got, "exit status 2")
	}
}

func TestIsDomainError(t *testing.T) {
	if !IsDomainError(ErrSessionActive, "DS-ADMN-4090") {
		t.Error("IsDomainError should return true for matching code")
	}
	if IsDomainError(ErrSessionActive, "DS-ADMN-9999") {
		t.Error("IsDomainError should return false for non-matching code")
	}
	if IsDomainError(fmt.Errorf("regular error"), "") {
		t.Error("IsDomainError should return false for non-DomainError")
	}

	wrapped := fmt.Errorf("wrapped: %w", ErrTokenConsumed)
	if !IsDomainError(wrapped, "DS-ADMN-4011") {
		t.Error("IsDomainError should work with wrapped errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"domain error", ErrMonitorOutOfRange, "DS-CMD-4000"},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", ErrZeroViewport), "DS-CMD-4004"},
		{"regular error", fmt.Errorf("regular error"), ""},
		{"nil error", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func catalogue() []*DomainError {
	return []*DomainError{
		ErrTokenInvalid, ErrTokenConsumed, ErrUnauthorized, ErrSessionActive,
		ErrCaptureFailed, ErrEncodeFailed, ErrNoMonitor,
		ErrConnectionClosed,
		ErrMonitorOutOfRange, ErrEmptyText, ErrNoKeys, ErrInvalidCommand,
		ErrZeroViewport, ErrUnknownButton, ErrBadRequest, ErrCommandFailed,
		ErrInternalServer, ErrRateLimited,
	}
}

func TestCatalogue_CodesAreWellFormedAndUnique(t *testing.T) {
	codeFormat := regexp.MustCompile(`^DS-(ADMN|CAPT|STRM|CMD|SYS)-[45]\d{3}$`)
	seen := make(map[string]string)

	for _, e := range catalogue() {
		if !codeFormat.MatchString(e.Code) {
			t.Errorf("code %q does not match %s", e.Code, codeFormat)
		}
		if e.Message == "" {
			t.Errorf("%s has an empty message", e.Code)
		}
		if prev, dup := seen[e.Code]; dup {
			t.Errorf("code %s used by %q and %q", e.Code, prev, e.Message)
		}
		seen[e.Code] = e.Message
	}
}

func TestCatalogue_AdmissionCodesAreClientErrors(t *testing.T) {
	for _, e := range []*DomainError{ErrTokenInvalid, ErrTokenConsumed, ErrUnauthorized, ErrSessionActive} {
		if !strings.HasPrefix(e.Code, "DS-ADMN-4") {
			t.Errorf("%s is not a 4xxx admission code", e.Code)
		}
	}
}

func TestCatalogue_ClientMessages(t *testing.T) {
	tests := []struct {
		err  *DomainError
		want string
	}{
		{ErrUnauthorized, "Session active by another user or unauthorized IP"},
		{ErrNoKeys, "No keys sent"},
		{ErrInvalidCommand, "Invalid command"},
	}
	for _, tt := range tests {
		if got := tt.err.Public(); got != tt.want {
			t.Errorf("%s Public() = %q, want %q", tt.err.Code, got, tt.want)
		}
	}
}

func TestWithDetails_LeavesCatalogueUntouched(t *testing.T) {
	_ = ErrCommandFailed.WithDetails("exit status 2").WithCause(errors.New("boom"))

	if ErrCommandFailed.Details != "" || ErrCommandFailed.Cause != nil {
		t.Errorf("catalogue value modified: %+v", ErrCommandFailed)
	}
}

func TestErrorChaining(t *testing.T) {
	cause := fmt.Errorf("xdotool: exit status 1")
	err := ErrCommandFailed.
		WithDetails("press ctrl+c").
		WithCause(cause)

	if err.Code != "DS-CMD-5000" {
		t.Errorf("Code = %q, want %q", err.Code, "DS-CMD-5000")
	}
	if err.Details != "press ctrl+c" {
		t.Errorf("Details = %q", err.Details)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("errors.Is should work after chaining")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}
