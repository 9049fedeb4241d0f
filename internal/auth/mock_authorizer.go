package auth

import (
	"context"
)

const (
	// LocalDevToken is the hardcoded token for local development only.
	LocalDevToken = "narrate_local_dev_token"

	// LocalDevUserID is the user that LocalDevToken resolves to.
	LocalDevUserID = "narrate_dev"
)

// MockAuthorizer provides a simple authorizer for local development and
// tests. It only recognizes the hardcoded LocalDevToken.
type MockAuthorizer struct{}

func NewMockAuthorizer() *MockAuthorizer { return &MockAuthorizer{} }

func (m *MockAuthorizer) Authorize(_ context.Context, token string) (*Session, error) {
	if token != LocalDevToken {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: LocalDevUserID}, nil
}
