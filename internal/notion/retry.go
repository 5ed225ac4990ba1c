package notion

import (
	"time"

	"github.com/hmoraleda/relink/pkg/errors"
)

// Class buckets a remote failure for retry purposes.
type Class int

// Failure classes.
const (
	// ClassFatal failures propagate immediately: malformed requests,
	// authentication failures, missing collections, and any local
	// (non-remote) error.
	ClassFatal Class = iota

	// ClassRateLimited failures back off exponentially before retrying.
	ClassRateLimited

	// ClassTransient failures back off linearly before retrying.
	ClassTransient
)

// String returns the class name for logging.
func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// Classify buckets an error from a remote call. Errors that are not remote
// API errors are programming or local failures and are never retried.
func Classify(err error) Class {
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) {
		return ClassFatal
	}
	switch {
	case apiErr.StatusCode == 429:
		return ClassRateLimited
	case apiErr.StatusCode == 0, apiErr.StatusCode == 408, apiErr.StatusCode >= 500:
		// Status 0 means the request never got an HTTP response.
		return ClassTransient
	default:
		return ClassFatal
	}
}

// Policy is the retry schedule shared by every remote operation: a fixed
// attempt ceiling and a delay function keyed by failure class.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Delay returns the sleep before re-requesting a pacing slot after the given
// zero-based attempt fails with the given class. Rate-limit rejections back
// off exponentially (base·2^attempt); transient failures back off linearly
// (base·(attempt+1)).
func (p Policy) Delay(class Class, attempt int) time.Duration {
	switch class {
	case ClassRateLimited:
		return p.BaseDelay * (1 << attempt)
	case ClassTransient:
		return p.BaseDelay * time.Duration(attempt+1)
	default:
		return 0
	}
}

// attempts returns the effective attempt ceiling.
func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
