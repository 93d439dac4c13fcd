package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roamio/backend/internal/domain"
)

// State is the session controller's lifecycle state.
type State int

const (
	// Unresolved means Resolve has not run yet.
	Unresolved State = iota
	// Resolving means a login, signup, or session restoration is in flight.
	Resolving
	// Authenticated means a user is logged in.
	Authenticated
	// Anonymous means no user is logged in.
	Anonymous
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// opTimeout bounds every backend call made by the session, so a stuck
// database can never wedge a login forever.
const opTimeout = 10 * time.Second

// Session is the single authority for "who is logged in". It owns the current
// user, delegates credential work to its Backend, and serializes all
// session-mutating operations so a double-submitted login cannot interleave
// with a logout.
//
// Nothing outside this type mutates the current user.
type Session struct {
	backend Backend
	log     *slog.Logger

	// op serializes Login/Signup/Logout/Resolve end to end.
	op sync.Mutex

	// mu guards the observable state below; held only for field access,
	// never across backend calls.
	mu      sync.RWMutex
	state   State
	user    *domain.User
	lastErr string
}

// NewSession constructs a Session over the given policy backend.
// Call Resolve once at startup to restore any persisted session.
func NewSession(backend Backend, log *slog.Logger) *Session {
	return &Session{backend: backend, log: log, state: Unresolved}
}

// Current returns the logged-in user, ok=false when anonymous.
func (s *Session) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the user-facing message of the last failed login or signup,
// or "" after a success or before any attempt. It is a transient overlay on
// the Anonymous state, cleared by the next attempt.
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Resolve restores a persisted session, if any. It never returns an error:
// any internal failure is logged and leaves the session anonymous. Safe to
// call repeatedly; every call re-reads the backend's persisted state.
func (s *Session) Resolve(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()

	s.set(Resolving, nil, "")

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, ok, err := s.backend.Resume(ctx)
	if err != nil {
		s.log.Error("session restore failed", "error", err)
		s.set(Anonymous, nil, "")
		return
	}
	if !ok {
		s.set(Anonymous, nil, "")
		return
	}
	s.set(Authenticated, &user, "")
}

// Login authenticates the email/password pair. On success the user becomes
// current; on failure the session stays anonymous with a user-facing message
// recorded. The loading state is always cleared on exit, both paths.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.op.Lock()
	defer s.op.Unlock()

	s.set(Resolving, nil, "")

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.set(Anonymous, nil, loginMessage(err))
		return err
	}
	s.set(Authenticated, &user, "")
	return nil
}

// Signup creates a new account and logs it in. The created user is never an
// admin. Same loading/error contract as Login.
func (s *Session) Signup(ctx context.Context, input SignupInput) error {
	s.op.Lock()
	defer s.op.Unlock()

	s.set(Resolving, nil, "")

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user, err := s.backend.Signup(ctx, input)
	if err != nil {
		s.set(Anonymous, nil, signupMessage(err))
		return err
	}
	s.set(Authenticated, &user, "")
	return nil
}

// Logout clears the current user and any persisted session. Idempotent:
// logging out while anonymous is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.backend.SignOut(ctx)
	// The local user is cleared even if the backend sign-out failed; a
	// half-dead session is worse than an orphaned server-side record.
	s.set(Anonymous, nil, "")
	return err
}

// Watch re-resolves the session on every auth-state change pushed by the
// backend, until ctx is cancelled. It returns immediately when the backend
// is not a Notifier. Run it in its own goroutine.
func (s *Session) Watch(ctx context.Context) {
	notifier, ok := s.backend.(Notifier)
	if !ok {
		return
	}

	changes := notifier.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-changes:
			s.log.Debug("auth state changed", "event", string(ev))
			s.Resolve(ctx)
		}
	}
}

func (s *Session) set(state State, user *domain.User, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
	s.lastErr = errMsg
}

// loginMessage maps a backend error to the message shown at the login form.
// Credential mismatches keep their canonical wording; anything else falls
// back to a generic message so internals never leak to users.
func loginMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return domain.ErrInvalidCredentials.Error()
	}
	return "An error occurred during login"
}

func signupMessage(err error) string {
	if errors.Is(err, domain.ErrEmailTaken) {
		return domain.ErrEmailTaken.Error()
	}
	return "An error occurred during signup"
}
