package repository

import (
	"context"
	"fmt"
	"time"

	"wex_backend/platform/apperr"

	"github.com/google/uuid"
)

// Candidate is a listable warehouse joined with its listing terms, shaped
// for the scorer.
type Candidate struct {
	WarehouseID         uuid.UUID  `db:"warehouse_id"`
	SupplierID          uuid.UUID  `db:"supplier_id"`
	Lat                 *float64   `db:"lat"`
	Lng                 *float64   `db:"lng"`
	City                string     `db:"city"`
	State               string     `db:"state"`
	ActivityTier        string     `db:"activity_tier"`
	TotalSqft           *float64   `db:"total_sqft"`
	HasOfficeSpace      bool       `db:"has_office_space"`
	HasSprinkler        bool       `db:"has_sprinkler"`
	DockDoors           int        `db:"dock_doors"`
	DriveInDoors        int        `db:"drive_in_doors"`
	ParkingSpaces       int        `db:"parking_spaces"`
	MinListableSqft     *float64   `db:"min_listable_sqft"`
	MaxListableSqft     *float64   `db:"max_listable_sqft"`
	SupplierRatePerSqft *float64   `db:"supplier_rate_per_sqft"`
	AvailableFrom       *time.Time `db:"available_from"`
}

const candidateColumns = `w.id, w.supplier_id, w.lat, w.lng, w.city, w.state, w.activity_tier,
	w.total_sqft, w.has_office_space, w.has_sprinkler, w.dock_doors, w.drive_in_doors,
	w.parking_spaces, lt.min_listable_sqft, lt.max_listable_sqft, lt.supplier_rate_per_sqft,
	lt.available_from`

func scanCandidates(ctx context.Context, r *Repository, query string, args ...any) ([]Candidate, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		err := rows.Scan(
			&c.WarehouseID, &c.SupplierID, &c.Lat, &c.Lng, &c.City, &c.State, &c.ActivityTier,
			&c.TotalSqft, &c.HasOfficeSpace, &c.HasSprinkler, &c.DockDoors, &c.DriveInDoors,
			&c.ParkingSpaces, &c.MinListableSqft, &c.MaxListableSqft, &c.SupplierRatePerSqft,
			&c.AvailableFrom,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	return out, nil
}

// ListCoPrimary selects listable warehouses in the need's state whose
// listable range overlaps the requested size band. This is the primary
// clearing filter; size bounds are optional and widen the net when absent.
func (r *Repository) ListCoPrimary(ctx context.Context, state string, minSqft, maxSqft *float64, limit int) ([]Candidate, error) {
	query := `SELECT ` + candidateColumns + `
		FROM warehouses w
		JOIN listing_terms lt ON lt.warehouse_id = w.id
		WHERE w.status = 'listable'
		  AND w.state = $1
		  AND ($2::float8 IS NULL OR lt.max_listable_sqft IS NULL OR lt.max_listable_sqft >= $2)
		  AND ($3::float8 IS NULL OR lt.min_listable_sqft IS NULL OR lt.min_listable_sqft <= $3)
		ORDER BY w.created_at DESC
		LIMIT $4`

	return scanCandidates(ctx, r, query, state, minSqft, maxSqft, limit)
}

// ListNearest is the KNN fallback used when the co-primary filter returns too
// few candidates: listable warehouses with coordinates, nearest first. The
// ordering uses a planar approximation; exact great-circle distance is
// recomputed by the location scorer anyway.
func (r *Repository) ListNearest(ctx context.Context, lat, lng float64, limit int) ([]Candidate, error) {
	query := `SELECT ` + candidateColumns + `
		FROM warehouses w
		JOIN listing_terms lt ON lt.warehouse_id = w.id
		WHERE w.status = 'listable' AND w.lat IS NOT NULL AND w.lng IS NOT NULL
		ORDER BY (w.lat - $1) * (w.lat - $1) + (w.lng - $2) * (w.lng - $2) ASC
		LIMIT $3`

	return scanCandidates(ctx, r, query, lat, lng, limit)
}

// GetWarehouseFacts looks up a single warehouse with its listing terms, used
// by the async feature evaluation after a clearing run has persisted matches.
func (r *Repository) GetWarehouseFacts(ctx context.Context, warehouseID uuid.UUID) (*Candidate, error) {
	query := `SELECT ` + candidateColumns + `
		FROM warehouses w
		JOIN listing_terms lt ON lt.warehouse_id = w.id
		WHERE w.id = $1`

	candidates, err := scanCandidates(ctx, r, query, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperr.NotFound("warehouse not found")
	}

	return &candidates[0], nil
}
