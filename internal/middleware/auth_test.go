package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/middleware"
)

// mockVerifier is a test double for middleware.TokenVerifier.
type mockVerifier struct {
	verify func(token string) (uuid.UUID, error)
}

func (m *mockVerifier) Verify(token string) (uuid.UUID, error) { return m.verify(token) }

var _ middleware.TokenVerifier = (*mockVerifier)(nil)

// mockUserSource is a test double for middleware.UserSource.
type mockUserSource struct {
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserSource) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ middleware.UserSource = (*mockUserSource)(nil)

// ---- helpers ---------------------------------------------------------------

// echoUserHandler writes 200 if a user is present in context, 500 otherwise.
func echoUserHandler(got *domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		*got = user
		w.WriteHeader(http.StatusOK)
	})
}

func acceptAll(id uuid.UUID) *mockVerifier {
	return &mockVerifier{verify: func(_ string) (uuid.UUID, error) { return id, nil }}
}

func userByID(user domain.User) *mockUserSource {
	return &mockUserSource{
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			if id != user.ID {
				return domain.User{}, domain.ErrNotFound
			}
			return user, nil
		},
	}
}

// ---- RequireAuth -----------------------------------------------------------

func TestRequireAuth_ValidToken_AttachesUser(t *testing.T) {
	user := domain.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", PasswordHash: "hash"}
	var got domain.User
	h := middleware.NewRequireAuth(acceptAll(user.ID), userByID(user))(echoUserHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, got.ID)
	// The context user is always redacted.
	assert.Empty(t, got.PasswordHash)
}

func TestRequireAuth_MissingHeader_401(t *testing.T) {
	h := middleware.NewRequireAuth(acceptAll(uuid.New()), &mockUserSource{})(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestRequireAuth_NonBearerScheme_401(t *testing.T) {
	h := middleware.NewRequireAuth(acceptAll(uuid.New()), &mockUserSource{})(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken_401(t *testing.T) {
	verifier := &mockVerifier{
		verify: func(_ string) (uuid.UUID, error) { return uuid.Nil, errors.New("token expired") },
	}
	h := middleware.NewRequireAuth(verifier, &mockUserSource{})(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_DeletedUser_401(t *testing.T) {
	users := &mockUserSource{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	h := middleware.NewRequireAuth(acceptAll(uuid.New()), users)(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// A token for a vanished user is a stale session, rejected like any
	// other bad token.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---- RequireAdmin ----------------------------------------------------------

func TestRequireAdmin_Admin_PassesThrough(t *testing.T) {
	admin := domain.User{ID: uuid.New(), Name: "Admin", IsAdmin: true}
	var got domain.User
	chain := middleware.NewRequireAuth(acceptAll(admin.ID), userByID(admin))(
		middleware.NewRequireAdmin()(echoUserHandler(&got)),
	)

	req := httptest.NewRequest(http.MethodPost, "/packages", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.IsAdmin)
}

func TestRequireAdmin_NonAdmin_403(t *testing.T) {
	user := domain.User{ID: uuid.New(), Name: "Jane"}
	chain := middleware.NewRequireAuth(acceptAll(user.ID), userByID(user))(
		middleware.NewRequireAdmin()(trivialHandler),
	)

	req := httptest.NewRequest(http.MethodPost, "/packages", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "forbidden")
}

func TestRequireAdmin_NoUserInContext_401(t *testing.T) {
	// RequireAdmin wired without RequireAuth upstream.
	h := middleware.NewRequireAdmin()(trivialHandler)

	req := httptest.NewRequest(http.MethodPost, "/packages", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
