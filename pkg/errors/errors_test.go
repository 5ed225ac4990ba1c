package errors

import (
	"fmt"
	"testing"
)

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		target error
		want   bool
	}{
		{"429 is rate limited", NewAPIError(429, "rate_limited", "slow down", "/pages"), ErrRateLimited, true},
		{"503 is service unavailable", NewAPIError(503, "", "unavailable", "/pages"), ErrServiceUnavailable, true},
		{"404 is not found", NewAPIError(404, "object_not_found", "gone", "/pages/x"), ErrNotFound, true},
		{"400 matches nothing", NewAPIError(400, "validation_error", "bad body", "/pages"), ErrRateLimited, false},
		{"429 is not service unavailable", NewAPIError(429, "", "", "/pages"), ErrServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestAPIErrorClassificationThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("operation failed: %w", NewAPIError(429, "rate_limited", "slow down", "/pages"))
	if !IsRateLimited(wrapped) {
		t.Error("wrapped 429 not recognized as rate limited")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := NewAPIError(400, "validation_error", "body malformed", "/databases/x/query")
	msg := err.Error()
	want := "API error (status 400) on /databases/x/query: body malformed"
	if msg != want {
		t.Errorf("Error() = %q, want %q", msg, want)
	}

	// Status 0 means no HTTP response ever arrived.
	netErr := &APIError{Endpoint: "/pages", Message: "request failed", Err: New("connection refused")}
	if got := netErr.Error(); got != "API error on /pages: request failed" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := &ValidationError{Field: "batch_size", Value: -1, Message: "must be positive"}
	if !IsValidationError(err) {
		t.Error("ValidationError not recognized as invalid input")
	}
}

func TestWrapParse(t *testing.T) {
	if WrapParse("json", "response", nil) != nil {
		t.Error("WrapParse(nil) should be nil")
	}

	cause := New("unexpected EOF")
	err := WrapParse("json", "response from /pages", cause)
	if !Is(err, cause) {
		t.Error("ParseError does not unwrap to its cause")
	}
}
