package auth

import (
	"context"

	"github.com/roamio/backend/internal/domain"
)

// The store key under which the current session is persisted.
// The mock backend stores the serialized user; the directory and table
// backends store a signed token.
const sessionKey = "session"

// SignupInput carries the fields a new user supplies at signup.
// There is deliberately no admin flag here: signup always produces a regular
// user, and the admin bit is operator-assigned after the fact.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Age      *int
	Location *string
}

// Backend is one authentication/persistence policy behind the Session.
// Exactly one implementation is active per process, selected by configuration.
//
// All methods may be called concurrently; implementations must be safe.
type Backend interface {
	// Login verifies the email/password pair and returns the matching profile,
	// persisting the session. Returns domain.ErrInvalidCredentials when the
	// pair does not match.
	Login(ctx context.Context, email, password string) (domain.User, error)

	// Signup creates a new profile with IsAdmin forced false, persists the
	// session, and returns the profile. Returns domain.ErrEmailTaken when the
	// email is already registered.
	Signup(ctx context.Context, input SignupInput) (domain.User, error)

	// Resume restores the persisted session, if any. ok=false means no
	// session; errors mean the restoration itself failed (the Session treats
	// both as "no user", logging the latter).
	Resume(ctx context.Context) (user domain.User, ok bool, err error)

	// SignOut clears any persisted session state. Idempotent.
	SignOut(ctx context.Context) error
}

// ChangeEvent names an auth-state transition pushed by a Notifier backend.
type ChangeEvent string

const (
	// EventSignedIn fires after a successful login or signup.
	EventSignedIn ChangeEvent = "signed_in"
	// EventSignedOut fires after a sign-out.
	EventSignedOut ChangeEvent = "signed_out"
)

// Notifier is implemented by backends that push auth-state changes.
// Session.Watch re-resolves the session on every received event.
type Notifier interface {
	// Changes returns the stream of auth-state transitions. The channel is
	// never closed by the backend; stop consuming by cancelling the watch
	// context instead.
	Changes() <-chan ChangeEvent
}
