package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/roamio/backend/internal/domain"
)

// CredentialRepo defines the persistence operations for the directory auth
// policy's credential store. Credentials never leave the auth package.
type CredentialRepo interface {
	// Create inserts a new credential row. The id also keys the users profile
	// row. Returns domain.ErrEmailTaken if the email is already registered.
	Create(ctx context.Context, cred domain.Credential) (domain.Credential, error)

	// GetByEmail retrieves a credential by email.
	// Returns domain.ErrNotFound if no credential with that email exists.
	GetByEmail(ctx context.Context, email string) (domain.Credential, error)
}

// pgCredentialRepo is the Postgres implementation of CredentialRepo.
type pgCredentialRepo struct {
	db db
}

// NewCredentialRepo constructs a CredentialRepo backed by the provided db connection.
func NewCredentialRepo(db db) CredentialRepo {
	return &pgCredentialRepo{db: db}
}

func (r *pgCredentialRepo) Create(ctx context.Context, cred domain.Credential) (domain.Credential, error) {
	const q = `
		INSERT INTO credentials (id, email, password_hash)
		VALUES (@id, @email, @password_hash)
		RETURNING id, email, password_hash, created_at`

	args := pgx.NamedArgs{
		"id":            cred.ID,
		"email":         cred.Email,
		"password_hash": cred.PasswordHash,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCredential(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Create: %w", domain.ErrEmailTaken)
		}
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgCredentialRepo) GetByEmail(ctx context.Context, email string) (domain.Credential, error) {
	const q = `
		SELECT id, email, password_hash, created_at
		FROM credentials
		WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	result, err := scanCredential(row)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.GetByEmail: %w", err)
	}
	return result, nil
}

// scanCredential maps a single database row into a domain.Credential.
func scanCredential(s scanner) (domain.Credential, error) {
	var (
		c  domain.Credential
		id pgtype.UUID
	)

	if err := s.Scan(&id, &c.Email, &c.PasswordHash, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Credential{}, domain.ErrNotFound
		}
		return domain.Credential{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
