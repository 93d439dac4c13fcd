package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/repo"
)

// bcryptCost is the work factor for newly hashed passwords.
const bcryptCost = 10

// DirectoryBackend is the two-table auth policy: credentials live in their own
// table (the "auth service"), profiles in the users table, joined on id.
// Sessions are persisted as signed tokens; Resume verifies the token and
// re-reads the profile row.
type DirectoryBackend struct {
	creds  repo.CredentialRepo
	users  repo.UserRepo
	tokens *TokenIssuer
	store  Store
	log    *slog.Logger
}

// NewDirectoryBackend constructs a DirectoryBackend from its collaborators.
func NewDirectoryBackend(creds repo.CredentialRepo, users repo.UserRepo, tokens *TokenIssuer, store Store, log *slog.Logger) *DirectoryBackend {
	return &DirectoryBackend{creds: creds, users: users, tokens: tokens, store: store, log: log}
}

var _ Backend = (*DirectoryBackend)(nil)

func (b *DirectoryBackend) Login(ctx context.Context, email, password string) (domain.User, error) {
	cred, err := b.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("auth.DirectoryBackend.Login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user, err := b.users.GetByID(ctx, cred.ID)
	if err != nil {
		// Credential without a profile row: treat as a broken account, not a
		// bad password, so the caller sees the real cause in the logs.
		return domain.User{}, fmt.Errorf("auth.DirectoryBackend.Login: profile: %w", err)
	}

	if err := b.persist(user.ID); err != nil {
		return domain.User{}, err
	}
	return user.Redacted(), nil
}

func (b *DirectoryBackend) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.DirectoryBackend.Signup: hash: %w", err)
	}

	cred, err := b.creds.Create(ctx, domain.Credential{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.DirectoryBackend.Signup: %w", err)
	}

	user, err := b.users.Create(ctx, domain.User{
		ID:       cred.ID,
		Name:     input.Name,
		Email:    input.Email,
		Age:      input.Age,
		Location: input.Location,
		IsAdmin:  false,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.DirectoryBackend.Signup: profile: %w", err)
	}

	if err := b.persist(user.ID); err != nil {
		return domain.User{}, err
	}
	return user.Redacted(), nil
}

func (b *DirectoryBackend) Resume(ctx context.Context) (domain.User, bool, error) {
	raw, ok, err := b.store.Get(sessionKey)
	if err != nil || !ok {
		return domain.User{}, false, err
	}

	id, err := b.tokens.Verify(raw)
	if err != nil {
		// Expired or tampered token — a stale session, not a failure.
		b.log.Debug("discarding invalid session token", "error", err)
		return domain.User{}, false, nil
	}

	user, err := b.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			b.log.Warn("session token for missing profile", "user_id", id)
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("auth.DirectoryBackend.Resume: %w", err)
	}
	return user.Redacted(), true, nil
}

func (b *DirectoryBackend) SignOut(ctx context.Context) error {
	if err := b.store.Delete(sessionKey); err != nil {
		return fmt.Errorf("auth.DirectoryBackend.SignOut: %w", err)
	}
	return nil
}

func (b *DirectoryBackend) persist(id uuid.UUID) error {
	token, err := b.tokens.Issue(id)
	if err != nil {
		return fmt.Errorf("auth.DirectoryBackend: issue token: %w", err)
	}
	if err := b.store.Set(sessionKey, token); err != nil {
		return fmt.Errorf("auth.DirectoryBackend: persist session: %w", err)
	}
	return nil
}
