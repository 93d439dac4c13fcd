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

// PlaceRepo defines the read-only persistence operations for Places.
// Places are only ever selected into packages, never mutated here.
type PlaceRepo interface {
	// ListByDestination returns all places for a destination ordered by name.
	ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error)
}

// pgPlaceRepo is the Postgres implementation of PlaceRepo.
type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

func (r *pgPlaceRepo) ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error) {
	const q = `
		SELECT id, destination_id, name, image_url
		FROM places
		WHERE destination_id = @destination_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"destination_id": destinationID})
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.ListByDestination: %w", err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PlaceRepo.ListByDestination: scan: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.ListByDestination: rows: %w", err)
	}

	return places, nil
}

// scanPlace maps a single database row into a domain.Place.
func scanPlace(s scanner) (domain.Place, error) {
	var (
		p      domain.Place
		id     pgtype.UUID
		destID pgtype.UUID
	)

	if err := s.Scan(&id, &destID, &p.Name, &p.ImageURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, domain.ErrNotFound
		}
		return domain.Place{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.DestinationID = uuid.UUID(destID.Bytes)
	return p, nil
}
