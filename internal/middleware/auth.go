package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
)

// TokenVerifier validates a bearer token and returns the user id it was
// issued for. Satisfied by auth.TokenIssuer.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// UserSource loads a user profile by id. Satisfied by repo.UserRepo.
// Defined here, in the consumer package, so the middleware can be tested
// without a database.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// ctxKey is an unexported type for context keys defined in this package,
// preventing collisions with keys from other packages.
type ctxKey int

const userKey ctxKey = 0

// UserFromContext returns the authenticated user attached by NewRequireAuth.
// The second return is false when the request did not pass through the
// middleware (or authentication failed upstream).
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

// NewRequireAuth returns a middleware that rejects requests lacking a valid
// "Authorization: Bearer <token>" header with 401, and otherwise attaches the
// resolved user profile to the request context.
//
// A token whose user row has since been deleted is treated the same as an
// invalid token: the session is stale, not the request malformed.
func NewRequireAuth(tokens TokenVerifier, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w)
				return
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user.Redacted())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRequireAdmin returns a middleware that rejects requests from
// non-admin users with 403. Wire it after NewRequireAuth.
func NewRequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if !user.IsAdmin {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":{"code":"forbidden","message":"admin access required"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
// Returns "" when the header is missing or not a Bearer scheme.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing or invalid token"}}`))
}
