package constants_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hmoraleda/relink/pkg/constants"
)

// Example demonstrates the remote API defaults.
func Example() {
	client := &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
	}
	fmt.Printf("Base URL: %s\n", constants.DefaultBaseURL)
	fmt.Printf("API version: %s\n", constants.DefaultAPIVersion)
	fmt.Printf("HTTP timeout: %v\n", client.Timeout)

	// Output:
	// Base URL: https://api.notion.com/v1
	// API version: 2022-06-28
	// HTTP timeout: 30s
}

// Example_pacing shows how the rate and retry defaults relate.
func Example_pacing() {
	interval := time.Duration(float64(time.Second) / constants.DefaultRequestsPerSecond)
	fmt.Printf("Rate: %.1f req/s (one call every %v)\n", constants.DefaultRequestsPerSecond, interval)
	fmt.Printf("Attempts: %d, base delay %v\n", constants.DefaultMaxAttempts, constants.DefaultBaseDelay)

	// Output:
	// Rate: 2.5 req/s (one call every 400ms)
	// Attempts: 5, base delay 1s
}

// Example_batch shows the batch bounds enforced on every session.
func Example_batch() {
	requested := 500
	if requested > constants.MaxBatchSize {
		requested = constants.MaxBatchSize
	}
	fmt.Printf("Default batch: %d\n", constants.DefaultBatchSize)
	fmt.Printf("Clamped batch: %d\n", requested)

	// Output:
	// Default batch: 10
	// Clamped batch: 100
}
