package client

import (
	"context"
	"fmt"

	"github.com/roamio/backend/internal/auth"
	"github.com/roamio/backend/internal/domain"
)

// tokenKey is the store entry holding the cached bearer token. It matches
// the key the server-side policies use, so the same file can back either.
const tokenKey = "session"

// Backend adapts a Client into an auth.Backend: credentials are checked by
// the remote API and the bearer token is persisted in an auth.Store. A
// process that only speaks HTTP can drive the same session controller the
// server-side policies do.
type Backend struct {
	api   *Client
	store auth.Store
}

// NewBackend returns a Backend over the given API client and token store.
func NewBackend(api *Client, store auth.Store) *Backend {
	return &Backend{api: api, store: store}
}

// Login authenticates against the API and persists the returned token.
func (b *Backend) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, token, err := b.api.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, asSentinel(err)
	}
	if err := b.store.Set(tokenKey, token); err != nil {
		return domain.User{}, fmt.Errorf("client.Backend.Login: persist token: %w", err)
	}
	return user, nil
}

// Signup registers a new account and persists the returned token.
func (b *Backend) Signup(ctx context.Context, input auth.SignupInput) (domain.User, error) {
	user, token, err := b.api.Signup(ctx, SignupParams{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Age:      input.Age,
		Location: input.Location,
	})
	if err != nil {
		return domain.User{}, asSentinel(err)
	}
	if err := b.store.Set(tokenKey, token); err != nil {
		return domain.User{}, fmt.Errorf("client.Backend.Signup: persist token: %w", err)
	}
	return user, nil
}

// Resume installs the cached token, if any, and fetches the profile it
// belongs to. A rejected token surfaces as an error; the session controller
// logs it and stays anonymous.
func (b *Backend) Resume(ctx context.Context) (domain.User, bool, error) {
	token, ok, err := b.store.Get(tokenKey)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("client.Backend.Resume: read token: %w", err)
	}
	if !ok || token == "" {
		return domain.User{}, false, nil
	}

	b.api.SetToken(token)
	user, err := b.api.Me(ctx)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("client.Backend.Resume: %w", err)
	}
	return user, true, nil
}

// SignOut drops the cached token. Tokens are stateless server-side, so the
// remote logout call is fire and forget.
func (b *Backend) SignOut(ctx context.Context) error {
	_ = b.api.Logout(ctx)
	if err := b.store.Delete(tokenKey); err != nil {
		return fmt.Errorf("client.Backend.SignOut: %w", err)
	}
	return nil
}

// asSentinel restores the domain sentinels the server flattened into message
// strings, keeping the session controller's error mapping intact across the
// wire.
func asSentinel(err error) error {
	switch err.Error() {
	case domain.ErrInvalidCredentials.Error():
		return domain.ErrInvalidCredentials
	case domain.ErrEmailTaken.Error():
		return domain.ErrEmailTaken
	}
	return err
}
