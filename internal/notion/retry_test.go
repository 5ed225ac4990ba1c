package notion

import (
	"testing"
	"time"

	"github.com/hmoraleda/relink/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil-status network failure", &errors.APIError{Endpoint: "/pages", Message: "request failed"}, ClassTransient},
		{"429 rate limited", errors.NewAPIError(429, "rate_limited", "", "/pages"), ClassRateLimited},
		{"408 request timeout", errors.NewAPIError(408, "", "", "/pages"), ClassTransient},
		{"500 internal error", errors.NewAPIError(500, "", "", "/pages"), ClassTransient},
		{"503 unavailable", errors.NewAPIError(503, "", "", "/pages"), ClassTransient},
		{"400 bad request", errors.NewAPIError(400, "validation_error", "", "/pages"), ClassFatal},
		{"401 unauthorized", errors.NewAPIError(401, "unauthorized", "", "/pages"), ClassFatal},
		{"404 not found", errors.NewAPIError(404, "object_not_found", "", "/pages"), ClassFatal},
		{"local error", errors.New("boom"), ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPolicyDelay(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: time.Second}

	// Rate limits back off exponentially.
	rateLimited := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for attempt, want := range rateLimited {
		if got := p.Delay(ClassRateLimited, attempt); got != want {
			t.Errorf("Delay(rate_limited, %d) = %s, want %s", attempt, got, want)
		}
	}

	// Transient failures back off linearly.
	transient := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second}
	for attempt, want := range transient {
		if got := p.Delay(ClassTransient, attempt); got != want {
			t.Errorf("Delay(transient, %d) = %s, want %s", attempt, got, want)
		}
	}

	if got := p.Delay(ClassFatal, 0); got != 0 {
		t.Errorf("Delay(fatal, 0) = %s, want 0", got)
	}
}

func TestPolicyDelayNonDecreasing(t *testing.T) {
	p := Policy{MaxAttempts: 6, BaseDelay: 250 * time.Millisecond}

	for _, class := range []Class{ClassRateLimited, ClassTransient} {
		prev := time.Duration(0)
		for attempt := 0; attempt < 5; attempt++ {
			d := p.Delay(class, attempt)
			if d < prev {
				t.Errorf("Delay(%s, %d) = %s decreased from %s", class, attempt, d, prev)
			}
			prev = d
		}
	}
}

func TestPolicyAttemptFloor(t *testing.T) {
	if got := (Policy{}).attempts(); got != 1 {
		t.Errorf("zero policy attempts = %d, want 1", got)
	}
	if got := (Policy{MaxAttempts: -3}).attempts(); got != 1 {
		t.Errorf("negative policy attempts = %d, want 1", got)
	}
	if got := (Policy{MaxAttempts: 5}).attempts(); got != 5 {
		t.Errorf("attempts = %d, want 5", got)
	}
}
