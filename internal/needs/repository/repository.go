// Package repository provides database operations for buyer needs.
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

// Need represents the buyer need database model. NeededFrom stays a raw
// string because intake accepts sentinels like NOW and ASAP alongside dates.
type Need struct {
	ID               uuid.UUID         `db:"id"`
	BuyerID          uuid.UUID         `db:"buyer_id"`
	City             string            `db:"city"`
	State            string            `db:"state"`
	Lat              *float64          `db:"lat"`
	Lng              *float64          `db:"lng"`
	RadiusMiles      float64           `db:"radius_miles"`
	MinSqft          *float64          `db:"min_sqft"`
	MaxSqft          *float64          `db:"max_sqft"`
	UseType          string            `db:"use_type"`
	NeededFrom       string            `db:"needed_from"`
	DurationMonths   int               `db:"duration_months"`
	MaxBudgetPerSqft *float64          `db:"max_budget_per_sqft"`
	Requirements     map[string]string `db:"requirements"`
	Source           string            `db:"source"`
	Status           string            `db:"status"`
	CreatedAt        time.Time         `db:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at"`
}

// Repository provides database operations for needs
type Repository struct {
	pool *pgxpool.Pool
}

const needNotFoundMsg = "need not found"

// New creates a new needs repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const needColumns = `id, buyer_id, city, state, lat, lng, radius_miles, min_sqft, max_sqft,
	use_type, needed_from, duration_months, max_budget_per_sqft, requirements, source, status,
	created_at, updated_at`

func scanNeed(row pgx.Row) (*Need, error) {
	var n Need
	err := row.Scan(
		&n.ID, &n.BuyerID, &n.City, &n.State, &n.Lat, &n.Lng, &n.RadiusMiles, &n.MinSqft, &n.MaxSqft,
		&n.UseType, &n.NeededFrom, &n.DurationMonths, &n.MaxBudgetPerSqft, &n.Requirements, &n.Source,
		&n.Status, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a new need
func (r *Repository) Create(ctx context.Context, n *Need) error {
	query := `
		INSERT INTO needs (
			id, buyer_id, city, state, lat, lng, radius_miles, min_sqft, max_sqft,
			use_type, needed_from, duration_months, max_budget_per_sqft, requirements, source,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)`

	_, err := r.pool.Exec(ctx, query,
		n.ID, n.BuyerID, n.City, n.State, n.Lat, n.Lng, n.RadiusMiles, n.MinSqft, n.MaxSqft,
		n.UseType, n.NeededFrom, n.DurationMonths, n.MaxBudgetPerSqft, n.Requirements, n.Source,
		n.Status, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create need: %w", err)
	}

	return nil
}

// GetByID retrieves a need by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Need, error) {
	query := `SELECT ` + needColumns + ` FROM needs WHERE id = $1`

	n, err := scanNeed(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(needNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get need: %w", err)
	}

	return n, nil
}

// ListByBuyer retrieves a buyer's needs, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Need, error) {
	query := `SELECT ` + needColumns + ` FROM needs WHERE buyer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list needs: %w", err)
	}
	defer rows.Close()

	var out []Need
	for rows.Next() {
		n, err := scanNeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan need: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read needs: %w", err)
	}

	return out, nil
}

// UpdateCoordinates stores geocoded coordinates for a need.
func (r *Repository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	query := `UPDATE needs SET lat = $1, lng = $2, updated_at = NOW() WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, lat, lng, id)
	if err != nil {
		return fmt.Errorf("failed to update need coordinates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(needNotFoundMsg)
	}

	return nil
}

// UpdateStatus moves a need between open, cleared, and closed.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE needs SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update need status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(needNotFoundMsg)
	}

	return nil
}
