package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/repo"
)

// TableBackend is the single-table auth policy: the users table is both the
// credential store and the profile store. Login matches on email and verifies
// the bcrypt hash stored alongside the profile.
//
// The original system this replaces compared plaintext passwords in that
// column; here the column only ever holds bcrypt hashes.
//
// TableBackend is also a Notifier: every sign-in and sign-out is broadcast so
// watching sessions re-resolve reactively.
type TableBackend struct {
	users  repo.UserRepo
	tokens *TokenIssuer
	store  Store
	log    *slog.Logger

	mu          sync.Mutex
	subscribers []chan ChangeEvent
}

// NewTableBackend constructs a TableBackend from its collaborators.
func NewTableBackend(users repo.UserRepo, tokens *TokenIssuer, store Store, log *slog.Logger) *TableBackend {
	return &TableBackend{users: users, tokens: tokens, store: store, log: log}
}

var (
	_ Backend  = (*TableBackend)(nil)
	_ Notifier = (*TableBackend)(nil)
)

func (b *TableBackend) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := b.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("auth.TableBackend.Login: %w", err)
	}
	if user.PasswordHash == "" {
		// Profile created under another policy; it has no credential here.
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err := b.persist(user.ID); err != nil {
		return domain.User{}, err
	}
	b.broadcast(EventSignedIn)
	return user.Redacted(), nil
}

func (b *TableBackend) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.TableBackend.Signup: hash: %w", err)
	}

	user, err := b.users.Create(ctx, domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		Age:          input.Age,
		Location:     input.Location,
		IsAdmin:      false,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.TableBackend.Signup: %w", err)
	}

	if err := b.persist(user.ID); err != nil {
		return domain.User{}, err
	}
	b.broadcast(EventSignedIn)
	return user.Redacted(), nil
}

func (b *TableBackend) Resume(ctx context.Context) (domain.User, bool, error) {
	raw, ok, err := b.store.Get(sessionKey)
	if err != nil || !ok {
		return domain.User{}, false, err
	}

	id, err := b.tokens.Verify(raw)
	if err != nil {
		b.log.Debug("discarding invalid session token", "error", err)
		return domain.User{}, false, nil
	}

	user, err := b.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			b.log.Warn("session token for missing profile", "user_id", id)
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("auth.TableBackend.Resume: %w", err)
	}
	return user.Redacted(), true, nil
}

func (b *TableBackend) SignOut(ctx context.Context) error {
	if err := b.store.Delete(sessionKey); err != nil {
		return fmt.Errorf("auth.TableBackend.SignOut: %w", err)
	}
	b.broadcast(EventSignedOut)
	return nil
}

// Changes returns a fresh subscription to auth-state transitions.
// The channel is buffered; a subscriber that falls behind loses events rather
// than blocking logins.
func (b *TableBackend) Changes() <-chan ChangeEvent {
	ch := make(chan ChangeEvent, 8)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

func (b *TableBackend) broadcast(ev ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop the event. The next transition will
			// bring it back in sync.
		}
	}
}

func (b *TableBackend) persist(id uuid.UUID) error {
	token, err := b.tokens.Issue(id)
	if err != nil {
		return fmt.Errorf("auth.TableBackend: issue token: %w", err)
	}
	if err := b.store.Set(sessionKey, token); err != nil {
		return fmt.Errorf("auth.TableBackend: persist session: %w", err)
	}
	return nil
}
