package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/roamio/backend/internal/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint breach,
// used to map duplicate emails onto domain.ErrEmailTaken.
const uniqueViolation = "23505"

// UserRepo defines the persistence operations for user profiles.
// Under the table auth policy the same rows also carry the bcrypt password
// hash, so GetByEmail returns it; callers outside the auth package must
// redact before exposing a user.
type UserRepo interface {
	// Create inserts a new profile row with the caller-supplied id and returns
	// the persisted record. Returns domain.ErrEmailTaken if the email is
	// already registered.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a profile by its UUID primary key.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail retrieves a profile by email, password hash included.
	// Returns domain.ErrNotFound if no user with that email exists.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (id, name, email, age, location, is_admin, password_hash)
		VALUES (@id, @name, @email, @age, @location, @is_admin, @password_hash)
		RETURNING id, name, email, age, location, is_admin, password_hash, created_at`

	args := pgx.NamedArgs{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"age":           user.Age,      // nil becomes NULL
		"location":      user.Location, // nil becomes NULL
		"is_admin":      user.IsAdmin,
		"password_hash": nullIfEmpty(user.PasswordHash),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", domain.ErrEmailTaken)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `
		SELECT id, name, email, age, location, is_admin, password_hash, created_at
		FROM users
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `
		SELECT id, name, email, age, location, is_admin, password_hash, created_at
		FROM users
		WHERE email = @email`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return result, nil
}

// scanUser maps a single database row into a domain.User.
// It handles the UUID and the nullable age, location, and password_hash columns.
func scanUser(s scanner) (domain.User, error) {
	var (
		u    domain.User
		id   pgtype.UUID
		age  pgtype.Int4
		loc  pgtype.Text
		hash pgtype.Text
	)

	err := s.Scan(&id, &u.Name, &u.Email, &age, &loc, &u.IsAdmin, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	if age.Valid {
		a := int(age.Int32)
		u.Age = &a
	}
	if loc.Valid {
		l := loc.String
		u.Location = &l
	}
	if hash.Valid {
		u.PasswordHash = hash.String
	}
	return u, nil
}

// nullIfEmpty maps "" to NULL so users created under the directory policy
// carry no hash at all in the profile table.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
