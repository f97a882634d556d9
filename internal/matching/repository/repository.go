// Package repository provides database operations for matches and
// clearing-candidate selection.
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

// Match represents the match database model: one scored (need, warehouse)
// pair produced by a clearing run.
type Match struct {
	ID                         uuid.UUID  `db:"id"`
	NeedID                     uuid.UUID  `db:"need_id"`
	WarehouseID                uuid.UUID  `db:"warehouse_id"`
	BuyerID                    uuid.UUID  `db:"buyer_id"`
	SupplierID                 uuid.UUID  `db:"supplier_id"`
	Rank                       int        `db:"rank"`
	CompositeScore             float64    `db:"composite_score"`
	LocationScore              float64    `db:"location_score"`
	SizeScore                  float64    `db:"size_score"`
	UseTypeScore               float64    `db:"use_type_score"`
	FeatureScore               float64    `db:"feature_score"`
	TimingScore                float64    `db:"timing_score"`
	BudgetScore                float64    `db:"budget_score"`
	DistanceMiles              *float64   `db:"distance_miles"`
	WithinBudget               bool       `db:"within_budget"`
	BudgetStretchPct           float64    `db:"budget_stretch_pct"`
	BudgetAlternativeAvailable bool       `db:"budget_alternative_available"`
	UseTypeCallouts            []string   `db:"use_type_callouts"`
	FeatureScoredAt            *time.Time `db:"feature_scored_at"`
	CreatedAt                  time.Time  `db:"created_at"`
	UpdatedAt                  time.Time  `db:"updated_at"`
}

// Repository provides database operations for matching
type Repository struct {
	pool *pgxpool.Pool
}

const matchNotFoundMsg = "match not found"

// New creates a new matching repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const matchColumns = `id, need_id, warehouse_id, buyer_id, supplier_id, rank, composite_score,
	location_score, size_score, use_type_score, feature_score, timing_score, budget_score,
	distance_miles, within_budget, budget_stretch_pct, budget_alternative_available,
	use_type_callouts, feature_scored_at, created_at, updated_at`

func scanMatch(row pgx.Row) (*Match, error) {
	var m Match
	err := row.Scan(
		&m.ID, &m.NeedID, &m.WarehouseID, &m.BuyerID, &m.SupplierID, &m.Rank, &m.CompositeScore,
		&m.LocationScore, &m.SizeScore, &m.UseTypeScore, &m.FeatureScore, &m.TimingScore, &m.BudgetScore,
		&m.DistanceMiles, &m.WithinBudget, &m.BudgetStretchPct, &m.BudgetAlternativeAvailable,
		&m.UseTypeCallouts, &m.FeatureScoredAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ReplaceForNeed atomically swaps the persisted match set for a need with the
// results of a fresh clearing run.
func (r *Repository) ReplaceForNeed(ctx context.Context, needID uuid.UUID, matches []Match) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin match replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM matches WHERE need_id = $1`, needID); err != nil {
		return fmt.Errorf("failed to clear previous matches: %w", err)
	}

	query := `
		INSERT INTO matches (
			id, need_id, warehouse_id, buyer_id, supplier_id, rank, composite_score,
			location_score, size_score, use_type_score, feature_score, timing_score, budget_score,
			distance_miles, within_budget, budget_stretch_pct, budget_alternative_available,
			use_type_callouts, feature_scored_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)`

	for i := range matches {
		m := &matches[i]
		_, err := tx.Exec(ctx, query,
			m.ID, m.NeedID, m.WarehouseID, m.BuyerID, m.SupplierID, m.Rank, m.CompositeScore,
			m.LocationScore, m.SizeScore, m.UseTypeScore, m.FeatureScore, m.TimingScore, m.BudgetScore,
			m.DistanceMiles, m.WithinBudget, m.BudgetStretchPct, m.BudgetAlternativeAvailable,
			m.UseTypeCallouts, m.FeatureScoredAt, m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit match replace: %w", err)
	}

	return nil
}

// GetByID retrieves a match by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(matchNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return m, nil
}

// ListForNeed retrieves the persisted match set for a need, best first.
func (r *Repository) ListForNeed(ctx context.Context, needID uuid.UUID) ([]Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE need_id = $1 ORDER BY rank ASC`

	rows, err := r.pool.Query(ctx, query, needID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}

	return out, nil
}

// UpdateFeatureScore records the async feature evaluation result and the
// recomputed composite.
func (r *Repository) UpdateFeatureScore(ctx context.Context, id uuid.UUID, featureScore, composite float64) error {
	query := `
		UPDATE matches SET
			feature_score = $1, composite_score = $2, feature_scored_at = NOW(), updated_at = NOW()
		WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, featureScore, composite, id)
	if err != nil {
		return fmt.Errorf("failed to update feature score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(matchNotFoundMsg)
	}

	return nil
}
