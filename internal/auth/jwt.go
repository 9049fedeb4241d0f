package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the owning user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// JWTAuthorizer issues and validates HS256 session tokens.
type JWTAuthorizer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTAuthorizer(secret []byte, ttl time.Duration) *JWTAuthorizer {
	return &JWTAuthorizer{secret: secret, ttl: ttl}
}

// IssueToken mints a signed token for userID valid for the configured TTL.
func (a *JWTAuthorizer) IssueToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(a.secret)
}

// Authorize validates the token signature and expiry and returns the session.
func (a *JWTAuthorizer) Authorize(_ context.Context, tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: claims.UserID}, nil
}
