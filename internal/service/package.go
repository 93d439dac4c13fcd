package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/repo"
)

// PackageService implements business logic for travel Package operations.
// It holds the destinations repo as well because creating a package requires
// verifying the chosen destination exists.
type PackageService struct {
	packages     repo.PackageRepo
	destinations repo.DestinationRepo
}

// NewPackageService constructs a PackageService backed by the provided repos.
func NewPackageService(packages repo.PackageRepo, destinations repo.DestinationRepo) *PackageService {
	return &PackageService{packages: packages, destinations: destinations}
}

// Create validates and persists a new package. The rating is always forced to
// zero on create; ratings accrue from bookings, not from the admin form.
// Returns domain.ErrValidation if input violates business rules.
func (s *PackageService) Create(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	if err := s.validate(ctx, pkg); err != nil {
		return domain.Package{}, err
	}

	pkg.Rating = 0
	result, err := s.packages.Create(ctx, pkg)
	if err != nil {
		return domain.Package{}, fmt.Errorf("service.PackageService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single package by ID, itinerary and places included.
func (s *PackageService) GetByID(ctx context.Context, id uuid.UUID) (domain.Package, error) {
	result, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return domain.Package{}, fmt.Errorf("service.PackageService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of packages plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PackageService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Package, int64, error) {
	pkgs, total, err := s.packages.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PackageService.ListPaged: %w", err)
	}
	if pkgs == nil {
		pkgs = []domain.Package{}
	}
	return pkgs, total, nil
}

// Update validates and persists changes to an existing package. The stored
// rating is carried over unchanged — whatever rating the caller submits is
// ignored. Returns domain.ErrNotFound if the package does not exist,
// domain.ErrValidation for invalid input.
func (s *PackageService) Update(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	existing, err := s.packages.GetByID(ctx, pkg.ID)
	if err != nil {
		return domain.Package{}, fmt.Errorf("service.PackageService.Update: %w", err)
	}
	if err := s.validate(ctx, pkg); err != nil {
		return domain.Package{}, err
	}

	pkg.Rating = existing.Rating
	result, err := s.packages.Update(ctx, pkg)
	if err != nil {
		return domain.Package{}, fmt.Errorf("service.PackageService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a package by ID.
// Returns domain.ErrNotFound if the package does not exist.
func (s *PackageService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.packages.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PackageService.Delete: %w", err)
	}
	return nil
}

// validate enforces the business rules common to Create and Update.
// The destination and itinerary messages match what the admin form shows
// inline, so the API and the form always agree.
func (s *PackageService) validate(ctx context.Context, pkg domain.Package) error {
	if pkg.DestinationID == uuid.Nil {
		return fmt.Errorf("%w: Please select a destination", domain.ErrValidation)
	}
	if _, err := s.destinations.GetByID(ctx, pkg.DestinationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: destination does not exist", domain.ErrValidation)
		}
		return fmt.Errorf("service.PackageService.validate: %w", err)
	}
	if strings.TrimSpace(pkg.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(pkg.Description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if pkg.Duration < 1 {
		return fmt.Errorf("%w: duration must be at least 1 day", domain.ErrValidation)
	}
	if pkg.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if len(pkg.Itinerary) != pkg.Duration {
		return fmt.Errorf("%w: itinerary must cover exactly %d days", domain.ErrValidation, pkg.Duration)
	}
	for i, day := range pkg.Itinerary {
		if day.Day != i+1 {
			return fmt.Errorf("%w: itinerary days must be numbered 1..%d in order", domain.ErrValidation, pkg.Duration)
		}
		if strings.TrimSpace(day.Description) == "" {
			return fmt.Errorf("%w: Please provide description for all days", domain.ErrValidation)
		}
	}
	return nil
}
