// Package provider abstracts the external generative-text service that turns
// a prompt into prose. Implementations live in this package (openai, ollama)
// and are selected by the factory.
package provider

import (
	"context"
	"fmt"
)

// Category classifies provider failures so callers can branch without
// string-matching error text.
type Category string

const (
	CategoryMissingCredential Category = "MISSING_CREDENTIAL"
	CategoryRateLimited       Category = "RATE_LIMITED"
	CategoryAuthFailed        Category = "AUTH_FAILED"
	CategoryNetworkError      Category = "NETWORK_ERROR"
	CategoryEmptyResponse     Category = "EMPTY_RESPONSE"
	CategoryUnknown           Category = "UNKNOWN"
)

// Error is the typed failure returned by every provider implementation.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error (%s): %s", e.Category, e.Message)
}

// Retryable reports whether a failure category is worth retrying with
// backoff. Credential problems need operator intervention, not retries.
func Retryable(c Category) bool {
	return c == CategoryRateLimited || c == CategoryNetworkError
}

// Provider is the generative text completion contract.
type Provider interface {
	// Complete sends the prompt and returns the raw response text.
	// Failures are reported as *Error.
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}
