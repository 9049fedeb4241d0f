package api

import (
	"context"
	"net/http"

	"github.com/narrate/narrate/internal/api/respond"
	"github.com/narrate/narrate/internal/auth"
)

type sessionKey struct{}

// SessionFrom returns the authenticated session stored by AuthMiddleware.
func SessionFrom(ctx context.Context) (*auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*auth.Session)
	return s, ok
}

// AuthMiddleware resolves the bearer token to a session and rejects the
// request with 401 when it cannot.
func AuthMiddleware(authorizer auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearerToken(r)
			if err != nil {
				respond.WriteUnauthorized(w, "please log in")
				return
			}
			session, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				respond.WriteUnauthorized(w, "please log in")
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
