// Package repository provides database operations for warehouses and their
// listing terms.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wex_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Warehouse represents the warehouse database model
type Warehouse struct {
	ID             uuid.UUID `db:"id"`
	SupplierID     uuid.UUID `db:"supplier_id"`
	Name           string    `db:"name"`
	AddressLine    string    `db:"address_line"`
	City           string    `db:"city"`
	State          string    `db:"state"`
	Zip            string    `db:"zip"`
	Lat            *float64  `db:"lat"`
	Lng            *float64  `db:"lng"`
	ActivityTier   string    `db:"activity_tier"`
	TotalSqft      *float64  `db:"total_sqft"`
	HasOfficeSpace bool      `db:"has_office_space"`
	HasSprinkler   bool      `db:"has_sprinkler"`
	DockDoors      int       `db:"dock_doors"`
	DriveInDoors   int       `db:"drive_in_doors"`
	ParkingSpaces  int       `db:"parking_spaces"`
	Description    *string   `db:"description"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ListingTerms represents the supplier-declared operational terms for a
// warehouse: what share of the space is listable, at what rate, from when.
type ListingTerms struct {
	WarehouseID         uuid.UUID  `db:"warehouse_id"`
	MinListableSqft     *float64   `db:"min_listable_sqft"`
	MaxListableSqft     *float64   `db:"max_listable_sqft"`
	SupplierRatePerSqft *float64   `db:"supplier_rate_per_sqft"`
	AvailableFrom       *time.Time `db:"available_from"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// Photo represents a listing photo reference stored in object storage.
type Photo struct {
	ID          uuid.UUID `db:"id"`
	WarehouseID uuid.UUID `db:"warehouse_id"`
	FileKey     string    `db:"file_key"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}

// Repository provides database operations for warehouses
type Repository struct {
	pool *pgxpool.Pool
}

const warehouseNotFoundMsg = "warehouse not found"

// New creates a new warehouses repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const warehouseColumns = `id, supplier_id, name, address_line, city, state, zip, lat, lng,
	activity_tier, total_sqft, has_office_space, has_sprinkler, dock_doors, drive_in_doors,
	parking_spaces, description, status, created_at, updated_at`

func scanWarehouse(row pgx.Row) (*Warehouse, error) {
	var w Warehouse
	err := row.Scan(
		&w.ID, &w.SupplierID, &w.Name, &w.AddressLine, &w.City, &w.State, &w.Zip, &w.Lat, &w.Lng,
		&w.ActivityTier, &w.TotalSqft, &w.HasOfficeSpace, &w.HasSprinkler, &w.DockDoors,
		&w.DriveInDoors, &w.ParkingSpaces, &w.Description, &w.Status, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a new warehouse
func (r *Repository) Create(ctx context.Context, w *Warehouse) error {
	query := `
		INSERT INTO warehouses (
			id, supplier_id, name, address_line, city, state, zip, lat, lng,
			activity_tier, total_sqft, has_office_space, has_sprinkler, dock_doors,
			drive_in_doors, parking_spaces, description, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.SupplierID, w.Name, w.AddressLine, w.City, w.State, w.Zip, w.Lat, w.Lng,
		w.ActivityTier, w.TotalSqft, w.HasOfficeSpace, w.HasSprinkler, w.DockDoors,
		w.DriveInDoors, w.ParkingSpaces, w.Description, w.Status, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create warehouse: %w", err)
	}

	return nil
}

// GetByID retrieves a warehouse by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`

	w, err := scanWarehouse(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(warehouseNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}

	return w, nil
}

// ListBySupplier retrieves a supplier's warehouses, newest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE supplier_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read warehouses: %w", err)
	}

	return out, nil
}

// UpdateStatus moves a warehouse between draft, listable, and delisted.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE warehouses SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update warehouse status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(warehouseNotFoundMsg)
	}

	return nil
}

// UpdateCoordinates stores geocoded coordinates for a warehouse.
func (r *Repository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	query := `UPDATE warehouses SET lat = $1, lng = $2, updated_at = NOW() WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, lat, lng, id)
	if err != nil {
		return fmt.Errorf("failed to update warehouse coordinates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(warehouseNotFoundMsg)
	}

	return nil
}

// UpdateDescription stores the generated listing description.
func (r *Repository) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	query := `UPDATE warehouses SET description = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, description, id)
	if err != nil {
		return fmt.Errorf("failed to update warehouse description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(warehouseNotFoundMsg)
	}

	return nil
}

// UpsertListingTerms creates or replaces the listing terms for a warehouse.
func (r *Repository) UpsertListingTerms(ctx context.Context, t *ListingTerms) error {
	query := `
		INSERT INTO listing_terms (warehouse_id, min_listable_sqft, max_listable_sqft, supplier_rate_per_sqft, available_from, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (warehouse_id) DO UPDATE SET
			min_listable_sqft = EXCLUDED.min_listable_sqft,
			max_listable_sqft = EXCLUDED.max_listable_sqft,
			supplier_rate_per_sqft = EXCLUDED.supplier_rate_per_sqft,
			available_from = EXCLUDED.available_from,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		t.WarehouseID, t.MinListableSqft, t.MaxListableSqft, t.SupplierRatePerSqft, t.AvailableFrom,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert listing terms: %w", err)
	}

	return nil
}

// GetListingTerms retrieves the listing terms for a warehouse, nil when none
// have been declared yet.
func (r *Repository) GetListingTerms(ctx context.Context, warehouseID uuid.UUID) (*ListingTerms, error) {
	query := `SELECT warehouse_id, min_listable_sqft, max_listable_sqft, supplier_rate_per_sqft, available_from, updated_at
		FROM listing_terms WHERE warehouse_id = $1`

	var t ListingTerms
	err := r.pool.QueryRow(ctx, query, warehouseID).Scan(
		&t.WarehouseID, &t.MinListableSqft, &t.MaxListableSqft, &t.SupplierRatePerSqft, &t.AvailableFrom, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing terms: %w", err)
	}

	return &t, nil
}

// AddPhoto records an uploaded listing photo.
func (r *Repository) AddPhoto(ctx context.Context, p *Photo) error {
	query := `INSERT INTO listing_photos (id, warehouse_id, file_key, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.WarehouseID, p.FileKey, p.ContentType, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add photo: %w", err)
	}

	return nil
}

// ListPhotos retrieves the photos for a warehouse, oldest first.
func (r *Repository) ListPhotos(ctx context.Context, warehouseID uuid.UUID) ([]Photo, error) {
	query := `SELECT id, warehouse_id, file_key, content_type, created_at
		FROM listing_photos WHERE warehouse_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var out []Photo
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.WarehouseID, &p.FileKey, &p.ContentType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read photos: %w", err)
	}

	return out, nil
}

// DeletePhoto removes a photo record, returning its file key for storage
// cleanup.
func (r *Repository) DeletePhoto(ctx context.Context, id uuid.UUID, warehouseID uuid.UUID) (string, error) {
	query := `DELETE FROM listing_photos WHERE id = $1 AND warehouse_id = $2 RETURNING file_key`

	var fileKey string
	err := r.pool.QueryRow(ctx, query, id, warehouseID).Scan(&fileKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("photo not found")
		}
		return "", fmt.Errorf("failed to delete photo: %w", err)
	}

	return fileKey, nil
}
