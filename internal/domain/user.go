package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a profile row in the users table.
// Age and Location are optional; nil means the user never supplied them.
//
// PasswordHash is populated only when the table auth policy is active, where
// the users table doubles as the credential store. It is always a bcrypt hash,
// is stripped before the user crosses the HTTP boundary, and is never compared
// outside the auth package.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          *int      `json:"age,omitempty"`
	Location     *string   `json:"location,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Redacted returns a copy of the user safe to serialize: the password hash is
// cleared. Call this before writing a user to any response or store.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}
