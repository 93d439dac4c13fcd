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

// PackageRepo defines the persistence operations for travel Packages.
// A package spans three tables: the packages row, its itinerary_days, and the
// package_places join table. Writes touch all three atomically.
type PackageRepo interface {
	// Create inserts a new package with its itinerary and place links and
	// returns the persisted record (with DB-generated id and timestamps).
	Create(ctx context.Context, pkg domain.Package) (domain.Package, error)

	// GetByID retrieves a single package by its UUID primary key, including
	// its itinerary and place ids.
	// Returns domain.ErrNotFound if no package with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Package, error)

	// ListPaged returns one page of packages ordered by created_at descending
	// plus the total count. Itinerary and Places are not loaded for listings;
	// use GetByID for the full aggregate.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Package, int64, error)

	// Update overwrites the mutable fields of an existing package and replaces
	// its itinerary and place links. Returns domain.ErrNotFound if no package
	// with that ID exists.
	Update(ctx context.Context, pkg domain.Package) (domain.Package, error)

	// Delete removes a package by ID. Itinerary days and place links go with
	// it via ON DELETE CASCADE. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPackageRepo is the Postgres implementation of PackageRepo.
type pgPackageRepo struct {
	db db
}

// NewPackageRepo constructs a PackageRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPackageRepo(db db) PackageRepo {
	return &pgPackageRepo{db: db}
}

func (r *pgPackageRepo) Create(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO packages (destination_id, title, description, duration, price, rating, main_image_url)
		VALUES (@destination_id, @title, @description, @duration, @price, @rating, @main_image_url)
		RETURNING id, destination_id, title, description, duration, price, rating, main_image_url, created_at, updated_at`

	row := tx.QueryRow(ctx, q, pgx.NamedArgs{
		"destination_id": pkg.DestinationID,
		"title":          pkg.Title,
		"description":    pkg.Description,
		"duration":       pkg.Duration,
		"price":          pkg.Price,
		"rating":         pkg.Rating,
		"main_image_url": pkg.MainImageURL,
	})
	result, err := scanPackage(row)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Create: %w", err)
	}

	if err := insertChildren(ctx, tx, result.ID, pkg); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Create: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Create: commit: %w", err)
	}

	result.Itinerary = pkg.Itinerary
	result.Places = pkg.Places
	return result, nil
}

func (r *pgPackageRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Package, error) {
	const q = `
		SELECT id, destination_id, title, description, duration, price, rating, main_image_url, created_at, updated_at
		FROM packages
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPackage(row)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.GetByID: %w", err)
	}

	if result.Itinerary, err = r.loadItinerary(ctx, id); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.GetByID: %w", err)
	}
	if result.Places, err = r.loadPlaceIDs(ctx, id); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPackageRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Package, int64, error) {
	const countQ = `SELECT count(*) FROM packages`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PackageRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, destination_id, title, description, duration, price, rating, main_image_url, created_at, updated_at
		FROM packages
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PackageRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var pkgs []domain.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.PackageRepo.ListPaged: scan: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.PackageRepo.ListPaged: rows: %w", err)
	}

	return pkgs, total, nil
}

func (r *pgPackageRepo) Update(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Update: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		UPDATE packages
		SET destination_id = @destination_id,
		    title          = @title,
		    description    = @description,
		    duration       = @duration,
		    price          = @price,
		    rating         = @rating,
		    main_image_url = @main_image_url,
		    updated_at     = now()
		WHERE id = @id
		RETURNING id, destination_id, title, description, duration, price, rating, main_image_url, created_at, updated_at`

	row := tx.QueryRow(ctx, q, pgx.NamedArgs{
		"id":             pkg.ID,
		"destination_id": pkg.DestinationID,
		"title":          pkg.Title,
		"description":    pkg.Description,
		"duration":       pkg.Duration,
		"price":          pkg.Price,
		"rating":         pkg.Rating,
		"main_image_url": pkg.MainImageURL,
	})
	result, err := scanPackage(row)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Update: %w", err)
	}

	// Replace children wholesale: the service always submits the full itinerary
	// and place set, so a delete-and-reinsert is simpler than diffing.
	if _, err := tx.Exec(ctx, `DELETE FROM itinerary_days WHERE package_id = @id`, pgx.NamedArgs{"id": pkg.ID}); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Update: clear itinerary: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM package_places WHERE package_id = @id`, pgx.NamedArgs{"id": pkg.ID}); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Update: clear places: %w", err)
	}
	if err := insertChildren(ctx, tx, pkg.ID, pkg); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Update: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Update: commit: %w", err)
	}

	result.Itinerary = pkg.Itinerary
	result.Places = pkg.Places
	return result, nil
}

func (r *pgPackageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM packages WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PackageRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PackageRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// insertChildren writes the itinerary days and place links for a package id
// inside the caller's transaction.
func insertChildren(ctx context.Context, tx pgx.Tx, id uuid.UUID, pkg domain.Package) error {
	const dayQ = `
		INSERT INTO itinerary_days (package_id, day, description)
		VALUES (@package_id, @day, @description)`

	for _, day := range pkg.Itinerary {
		args := pgx.NamedArgs{"package_id": id, "day": day.Day, "description": day.Description}
		if _, err := tx.Exec(ctx, dayQ, args); err != nil {
			return fmt.Errorf("insert itinerary day %d: %w", day.Day, err)
		}
	}

	const placeQ = `
		INSERT INTO package_places (package_id, place_id)
		VALUES (@package_id, @place_id)
		ON CONFLICT DO NOTHING`

	for _, placeID := range pkg.Places {
		args := pgx.NamedArgs{"package_id": id, "place_id": placeID}
		if _, err := tx.Exec(ctx, placeQ, args); err != nil {
			return fmt.Errorf("insert place link %s: %w", placeID, err)
		}
	}

	return nil
}

// loadItinerary returns a package's itinerary days ordered by day number.
func (r *pgPackageRepo) loadItinerary(ctx context.Context, id uuid.UUID) ([]domain.ItineraryDay, error) {
	const q = `
		SELECT day, description
		FROM itinerary_days
		WHERE package_id = @id
		ORDER BY day`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("load itinerary: %w", err)
	}
	defer rows.Close()

	var days []domain.ItineraryDay
	for rows.Next() {
		var d domain.ItineraryDay
		if err := rows.Scan(&d.Day, &d.Description); err != nil {
			return nil, fmt.Errorf("load itinerary: scan: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// loadPlaceIDs returns the ids of places linked to a package.
func (r *pgPackageRepo) loadPlaceIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT place_id
		FROM package_places
		WHERE package_id = @id
		ORDER BY place_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var pid pgtype.UUID
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("load places: scan: %w", err)
		}
		ids = append(ids, uuid.UUID(pid.Bytes))
	}
	return ids, rows.Err()
}

// scanPackage maps a single database row into a domain.Package.
// Itinerary and Places are loaded separately.
func scanPackage(s scanner) (domain.Package, error) {
	var (
		pkg    domain.Package
		id     pgtype.UUID
		destID pgtype.UUID
	)

	err := s.Scan(&id, &destID, &pkg.Title, &pkg.Description, &pkg.Duration,
		&pkg.Price, &pkg.Rating, &pkg.MainImageURL, &pkg.CreatedAt, &pkg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Package{}, domain.ErrNotFound
		}
		return domain.Package{}, err
	}

	pkg.ID = uuid.UUID(id.Bytes)
	pkg.DestinationID = uuid.UUID(destID.Bytes)
	return pkg, nil
}
