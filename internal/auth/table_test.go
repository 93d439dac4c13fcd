package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roamio/backend/internal/auth"
	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/repo"
)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create     func(ctx context.Context, user domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer("test-secret", time.Hour)
}

func hashedUser(t *testing.T, password string) domain.User {
	t.Helper()
	return domain.User{
		ID:           uuid.New(),
		Name:         "Jane",
		Email:        "jane@example.com",
		PasswordHash: mustHash(t, password),
	}
}

// ---- Login -----------------------------------------------------------------

func TestTableBackend_Login_Success(t *testing.T) {
	stored := hashedUser(t, "secret")
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			assert.Equal(t, "jane@example.com", email)
			return stored, nil
		},
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())

	user, err := b.Login(context.Background(), "jane@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	// The hash never travels past the backend.
	assert.Empty(t, user.PasswordHash)
}

func TestTableBackend_Login_WrongPassword(t *testing.T) {
	stored := hashedUser(t, "secret")
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return stored, nil },
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())

	_, err := b.Login(context.Background(), "jane@example.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestTableBackend_Login_UnknownEmail(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())

	_, err := b.Login(context.Background(), "nobody@example.com", "secret")

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestTableBackend_Login_ProfileWithoutCredential(t *testing.T) {
	stored := hashedUser(t, "secret")
	stored.PasswordHash = "" // profile row created under the directory policy
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return stored, nil },
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())

	_, err := b.Login(context.Background(), "jane@example.com", "secret")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// ---- Signup ----------------------------------------------------------------

func TestTableBackend_Signup_StoresHashNotPassword(t *testing.T) {
	var persisted domain.User
	users := &mockUserRepo{
		create: func(_ context.Context, user domain.User) (domain.User, error) {
			persisted = user
			return user, nil
		},
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())

	_, err := b.Signup(context.Background(), auth.SignupInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "secret", persisted.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(persisted.PasswordHash), []byte("secret")))
	assert.False(t, persisted.IsAdmin)
}

func TestTableBackend_Signup_EmailTaken(t *testing.T) {
	users := &mockUserRepo{
		create: func(_ context.Context, _ domain.User) (domain.User, error) {
			return domain.User{}, domain.ErrEmailTaken
		},
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())

	_, err := b.Signup(context.Background(), auth.SignupInput{Email: "jane@example.com", Password: "x"})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

// ---- Resume ----------------------------------------------------------------

func TestTableBackend_ResumeAfterLogin(t *testing.T) {
	stored := hashedUser(t, "secret")
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return stored, nil },
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			assert.Equal(t, stored.ID, id)
			return stored, nil
		},
	}
	store := auth.NewMemStore()
	b := auth.NewTableBackend(users, testIssuer(), store, testLogger())

	_, err := b.Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)

	user, ok, err := b.Resume(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stored.ID, user.ID)
}

func TestTableBackend_Resume_DeletedProfile(t *testing.T) {
	stored := hashedUser(t, "secret")
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return stored, nil },
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())

	_, err := b.Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)

	// The profile vanished between login and resume; the session is stale.
	_, ok, err := b.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

// ---- change notifications --------------------------------------------------

func TestTableBackend_BroadcastsSignInAndOut(t *testing.T) {
	stored := hashedUser(t, "secret")
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return stored, nil },
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())
	changes := b.Changes()

	_, err := b.Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, auth.EventSignedIn, <-changes)

	require.NoError(t, b.SignOut(context.Background()))
	assert.Equal(t, auth.EventSignedOut, <-changes)
}

func TestTableBackend_SlowSubscriberDoesNotBlock(t *testing.T) {
	stored := hashedUser(t, "secret")
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) { return stored, nil },
	}
	b := auth.NewTableBackend(users, testIssuer(), auth.NewMemStore(), testLogger())
	b.Changes() // subscribed but never drained

	// Overflow the subscriber's buffer; logins must still complete.
	for i := 0; i < 20; i++ {
		_, err := b.Login(context.Background(), "jane@example.com", "secret")
		require.NoError(t, err)
	}
}
