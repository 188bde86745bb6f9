package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookhavenapp/bookhaven-server/internal/auth"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// usernameKey is the context key for the authenticated username.
const usernameKey ctxKey = "username"

// GetUsername returns the authenticated username from context.
// Returns a 401 error when the request carried no valid token.
func GetUsername(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok || username == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return username, nil
}

// setUsername stores the username in context.
func setUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// authMiddleware validates Bearer tokens and stores the username in
// context. An absent or invalid token continues without a user; the
// handler rejects via GetUsername where auth is required.
func authMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifyAccessToken(authHeader[7:])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setUsername(r.Context(), claims.Username)))
		})
	}
}
