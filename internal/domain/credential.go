package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a row in the credentials table, the directory auth policy's
// dedicated credential store. Its ID is also the primary key of the matching
// users profile row — the two tables are joined on it at session resolution.
type Credential struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
