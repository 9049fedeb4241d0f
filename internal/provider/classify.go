package provider

import (
	"errors"
	"strings"
)

// Classify maps an arbitrary error to a typed *Error. Errors that are
// already typed pass through unchanged. Everything else falls back to
// substring matching on the message text; this is a pragmatic heuristic for
// providers that do not surface structured codes, and a wording change
// upstream can misclassify. Keep the keyword lists pinned by tests.
func Classify(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case containsAny(lower, "quota", "rate limit", "rate-limit", "too many requests"):
		return &Error{Category: CategoryRateLimited, Message: msg}
	case containsAny(lower, "network", "fetch", "connection refused", "no such host", "timeout", "deadline exceeded"):
		return &Error{Category: CategoryNetworkError, Message: msg}
	case containsAny(lower, "api key", "credential", "auth", "unauthorized", "forbidden"):
		return &Error{Category: CategoryAuthFailed, Message: msg}
	default:
		return &Error{Category: CategoryUnknown, Message: msg}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
