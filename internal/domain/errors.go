package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing destination, blank itinerary day).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidCredentials is returned by auth backends when an email/password
// pair does not match. Handlers should map this to HTTP 401. The message shown
// to users is always the generic "Invalid email or password" — backends must
// not leak whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("Invalid email or password")

// ErrEmailTaken is returned by auth backends when a signup email is already
// registered. Handlers should map this to HTTP 409.
var ErrEmailTaken = errors.New("email already registered")
