package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
)

// The two fixed accounts the mock backend accepts. Anything else fails with
// domain.ErrInvalidCredentials.
const (
	MockAdminEmail = "admin@example.com"
	MockUserEmail  = "user@example.com"
	MockPassword   = "password"
)

// MockBackend is the local-only auth policy: no database, two hardcoded
// accounts, the whole user serialized into the store. Meant for demos and
// frontend development against a backend with no Postgres around.
type MockBackend struct {
	store Store
}

// NewMockBackend returns a MockBackend persisting sessions into store.
func NewMockBackend(store Store) *MockBackend {
	return &MockBackend{store: store}
}

var _ Backend = (*MockBackend)(nil)

func (b *MockBackend) Login(ctx context.Context, email, password string) (domain.User, error) {
	var user domain.User
	switch {
	case email == MockAdminEmail && password == MockPassword:
		user = domain.User{
			ID:      uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
			Name:    "Admin User",
			Email:   MockAdminEmail,
			IsAdmin: true,
		}
	case email == MockUserEmail && password == MockPassword:
		age := 30
		location := "New York"
		user = domain.User{
			ID:       uuid.MustParse("123e4567-e89b-12d3-a456-426614174001"),
			Name:     "John Doe",
			Email:    MockUserEmail,
			Age:      &age,
			Location: &location,
		}
	default:
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err := b.persist(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (b *MockBackend) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	user := domain.User{
		ID:       uuid.New(),
		Name:     input.Name,
		Email:    input.Email,
		Age:      input.Age,
		Location: input.Location,
		IsAdmin:  false,
	}

	if err := b.persist(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (b *MockBackend) Resume(ctx context.Context) (domain.User, bool, error) {
	raw, ok, err := b.store.Get(sessionKey)
	if err != nil || !ok {
		return domain.User{}, false, err
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// A corrupt entry is a stale session, not a fatal state.
		return domain.User{}, false, fmt.Errorf("auth.MockBackend.Resume: parse session: %w", err)
	}
	return user, true, nil
}

func (b *MockBackend) SignOut(ctx context.Context) error {
	if err := b.store.Delete(sessionKey); err != nil {
		return fmt.Errorf("auth.MockBackend.SignOut: %w", err)
	}
	return nil
}

func (b *MockBackend) persist(user domain.User) error {
	data, err := json.Marshal(user.Redacted())
	if err != nil {
		return fmt.Errorf("auth.MockBackend: marshal session: %w", err)
	}
	if err := b.store.Set(sessionKey, string(data)); err != nil {
		return fmt.Errorf("auth.MockBackend: persist session: %w", err)
	}
	return nil
}
