// Package middleware carries the caller's identity through request contexts.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const identityKey ContextKey = "identity"

// ErrNotAuthenticated is returned when the request carries no authenticated identity.
var ErrNotAuthenticated = errors.New("user ID not found in request context")

// Identity describes who issued a request. The zero value is an anonymous caller.
type Identity struct {
	Authenticated bool
	UserID        uuid.UUID
}

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

// UserIDGetter extracts the user ID from validated token claims.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored in ctx, or an anonymous identity.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], parts[1] != ""
}

func resolve(validator TokenValidator, r *http.Request) (Identity, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return Identity{}, false
	}
	claims, err := validator.ValidateToken(token)
	if err != nil || claims.GetUserID() == uuid.Nil {
		return Identity{}, false
	}
	return Identity{Authenticated: true, UserID: claims.GetUserID()}, true
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := resolve(validator, r)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuth stores the caller's identity when a valid bearer token is present
// and lets anonymous requests through unchanged.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := resolve(validator, r); ok {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID returns the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	id := IdentityFrom(r.Context())
	if !id.Authenticated {
		return uuid.Nil, ErrNotAuthenticated
	}
	return id.UserID, nil
}
