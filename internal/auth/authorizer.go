package auth

import (
	"context"
)

// Session identifies an authenticated user for the duration of a request.
type Session struct {
	UserID string `json:"userId"`
}

// Authorizer validates a bearer token and resolves it to a session.
type Authorizer interface {
	// Authorize returns the session for a valid token, ErrUnauthorized
	// family errors otherwise.
	Authorize(ctx context.Context, token string) (*Session, error)
}
