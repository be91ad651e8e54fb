package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/isdelr/taskvault-be/internal/models"
)

type contextKey string

const userContextKey = contextKey("currentUser")

// UserFinder resolves a user id to an account record.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// Uniform rejection message. Missing, malformed, expired and orphaned tokens
// are indistinguishable to the caller.
const unauthorizedMessage = "Invalid or expired token"

// RequireAuth creates a middleware for protecting routes. It extracts the
// bearer token from the Authorization header, verifies it, resolves the
// embedded user id against the account store and binds the resulting user to
// the request context.
func RequireAuth(tm *TokenManager, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				unauthorized(w)
				return
			}

			userID, err := tm.Verify(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			// The account may have been removed after the token was issued.
			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user bound to the request context.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// WithUser returns a context carrying user, for tests exercising handlers
// below the middleware.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": unauthorizedMessage,
	})
}
