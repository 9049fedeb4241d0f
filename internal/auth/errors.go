package auth

import "errors"

var (
	// ErrUnauthorized is returned when no valid session can be established.
	ErrUnauthorized = errors.New("authentication required")

	// ErrInvalidToken is returned when a token fails signature or expiry checks.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingToken is returned when the request carries no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
)
