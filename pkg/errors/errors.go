// Package errors provides custom error types for the relink system.
// These errors enable programmatic classification of remote API failures
// into retryable and non-retryable categories, and improved debugging
// throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As is an alias for the standard library errors.As.
var As = errors.As

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// Common sentinel errors for the relink system
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrRateLimited indicates that the remote API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates that the remote service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRetriesExhausted indicates that a remote call failed on every permitted attempt
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// APIError represents an error reported by the remote workspace API.
// StatusCode 0 means the request never produced an HTTP response
// (connection failure, timeout).
type APIError struct {
	StatusCode int
	Code       string // remote error code, e.g. "rate_limited", "object_not_found"
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (status %d) on %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error on %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrServiceUnavailable
	}
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, code, message, endpoint string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Endpoint:   endpoint,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ExtractionError represents an unexpected or missing property shape
// encountered while extracting text from a record. Extraction degrades to an
// empty string; this error exists so callers can log the degradation.
type ExtractionError struct {
	Property string
	Kind     string
	Message  string
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("cannot extract text from property %q (%s): %s", e.Property, e.Kind, e.Message)
	}
	return fmt.Sprintf("cannot extract text from %s property: %s", e.Kind, e.Message)
}

// ParseError represents an error when decoding a remote response
type ParseError struct {
	Format  string
	Subject string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Subject: subject, Message: err.Error(), Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsServiceUnavailable checks if an error indicates remote unavailability
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
