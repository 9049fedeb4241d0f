package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/narrate/narrate/internal/auth"
	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/store"
)

// UserService handles registration and credential checks.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

// Register hashes the password and creates the account.
func (s *UserService) Register(ctx context.Context, userID, email, password, timeZone string, displayName *string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if timeZone == "" {
		timeZone = "UTC"
	}
	u := &model.User{
		UserID:       userID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		TimeZone:     timeZone,
	}
	return s.store.Users().Create(ctx, u)
}

// Authenticate verifies email+password. Unknown emails and wrong passwords
// both come back as ErrUnauthorized so callers cannot distinguish them.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, auth.ErrUnauthorized
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}
