// Package service contains the business logic for the Roamio API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/repo"
)

// CatalogService exposes the read-only destination and place listings that
// feed the package form's selectors.
type CatalogService struct {
	destinations repo.DestinationRepo
	places       repo.PlaceRepo
}

// NewCatalogService constructs a CatalogService backed by the provided repos.
func NewCatalogService(destinations repo.DestinationRepo, places repo.PlaceRepo) *CatalogService {
	return &CatalogService{destinations: destinations, places: places}
}

// ListDestinations returns all destinations ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CatalogService) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	dests, err := s.destinations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListDestinations: %w", err)
	}
	if dests == nil {
		return []domain.Destination{}, nil
	}
	return dests, nil
}

// ListPlaces returns all places for a destination ordered by name, after
// verifying the destination exists.
// Returns domain.ErrNotFound if the destination does not exist.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CatalogService) ListPlaces(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error) {
	if _, err := s.destinations.GetByID(ctx, destinationID); err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListPlaces: %w", err)
	}
	places, err := s.places.ListByDestination(ctx, destinationID)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListPlaces: %w", err)
	}
	if places == nil {
		return []domain.Place{}, nil
	}
	return places, nil
}
