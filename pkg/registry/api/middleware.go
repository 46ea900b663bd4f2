package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"

	"github.com/registrylabs/content-registry/pkg/registry/auth"
)

type contextKey string

const userIDKey contextKey = "authenticated_user_id"

// RequireAuth verifies the bearer token and stashes the caller's user id
// in the request context. Token verification only; handlers that need the
// user record load it themselves.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	verifier := jwtauth.Verifier(tokens.JWTAuth())

	return func(next http.Handler) http.Handler {
		return verifier(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				switch {
				case errors.Is(err, jwtauth.ErrNoTokenFound):
					writeErrorMessage(w, r, http.StatusUnauthorized, "Not authorized to access this route. No token provided.")
				case errors.Is(err, jwtauth.ErrExpired):
					writeErrorMessage(w, r, http.StatusUnauthorized, "Token expired")
				default:
					writeErrorMessage(w, r, http.StatusUnauthorized, "Invalid token")
				}
				return
			}
			if token == nil {
				writeErrorMessage(w, r, http.StatusUnauthorized, "Not authorized to access this route. No token provided.")
				return
			}

			userID, err := auth.UserID(claims)
			if err != nil {
				writeErrorMessage(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}))
	}
}

// AuthenticatedUserID returns the user id RequireAuth stored in the context.
func AuthenticatedUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
