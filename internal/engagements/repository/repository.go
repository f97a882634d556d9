// Package repository provides database operations for engagements.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wex_backend/internal/engagements/domain"
	"wex_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Engagement represents the engagement database model
type Engagement struct {
	ID                  uuid.UUID  `db:"id"`
	MatchID             uuid.UUID  `db:"match_id"`
	NeedID              uuid.UUID  `db:"need_id"`
	WarehouseID         uuid.UUID  `db:"warehouse_id"`
	BuyerID             uuid.UUID  `db:"buyer_id"`
	SupplierID          uuid.UUID  `db:"supplier_id"`
	Status              string     `db:"status"`
	TourRescheduleCount int        `db:"tour_reschedule_count"`
	TourScheduledFor    *time.Time `db:"tour_scheduled_for"`
	DealPingExpiresAt   *time.Time `db:"deal_ping_expires_at"`
	ReviewExpiresAt     *time.Time `db:"review_expires_at"`
	TourRequestedAt     *time.Time `db:"tour_requested_at"`
	AgreementSentAt     *time.Time `db:"agreement_sent_at"`
	DeclineReason       *string    `db:"decline_reason"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// DeadlineAt returns the named deadline timestamp, nil when unset or unknown.
func (e *Engagement) DeadlineAt(field string) *time.Time {
	switch field {
	case domain.FieldDealPingExpiresAt:
		return e.DealPingExpiresAt
	case domain.FieldReviewExpiresAt:
		return e.ReviewExpiresAt
	case domain.FieldTourRequestedAt:
		return e.TourRequestedAt
	case domain.FieldAgreementSentAt:
		return e.AgreementSentAt
	default:
		return nil
	}
}

// StatusUpdate carries a validated transition to persist. Timestamp fields
// are only written when non-nil; the previous status guards against
// concurrent writers racing the same engagement.
type StatusUpdate struct {
	Status              string
	PreviousStatus      string
	DealPingExpiresAt   *time.Time
	ReviewExpiresAt     *time.Time
	TourRequestedAt     *time.Time
	AgreementSentAt     *time.Time
	TourScheduledFor    *time.Time
	DeclineReason       *string
	IncrementReschedule bool
}

// Repository provides database operations for engagements
type Repository struct {
	pool *pgxpool.Pool
}

const engagementNotFoundMsg = "engagement not found"

// New creates a new engagements repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const engagementColumns = `id, match_id, need_id, warehouse_id, buyer_id, supplier_id, status,
	tour_reschedule_count, tour_scheduled_for, deal_ping_expires_at, review_expires_at,
	tour_requested_at, agreement_sent_at, decline_reason, created_at, updated_at`

func scanEngagement(row pgx.Row) (*Engagement, error) {
	var e Engagement
	err := row.Scan(
		&e.ID, &e.MatchID, &e.NeedID, &e.WarehouseID, &e.BuyerID, &e.SupplierID, &e.Status,
		&e.TourRescheduleCount, &e.TourScheduledFor, &e.DealPingExpiresAt, &e.ReviewExpiresAt,
		&e.TourRequestedAt, &e.AgreementSentAt, &e.DeclineReason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new engagement
func (r *Repository) Create(ctx context.Context, e *Engagement) error {
	query := `
		INSERT INTO engagements (
			id, match_id, need_id, warehouse_id, buyer_id, supplier_id, status,
			tour_reschedule_count, tour_scheduled_for, deal_ping_expires_at, review_expires_at,
			tour_requested_at, agreement_sent_at, decline_reason, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.MatchID, e.NeedID, e.WarehouseID, e.BuyerID, e.SupplierID, e.Status,
		e.TourRescheduleCount, e.TourScheduledFor, e.DealPingExpiresAt, e.ReviewExpiresAt,
		e.TourRequestedAt, e.AgreementSentAt, e.DeclineReason, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	return nil
}

// GetByID retrieves an engagement by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Engagement, error) {
	query := `SELECT ` + engagementColumns + ` FROM engagements WHERE id = $1`

	e, err := scanEngagement(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(engagementNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}

	return e, nil
}

// GetByMatchID retrieves the engagement opened for a match, nil when none exists.
func (r *Repository) GetByMatchID(ctx context.Context, matchID uuid.UUID) (*Engagement, error) {
	query := `SELECT ` + engagementColumns + ` FROM engagements WHERE match_id = $1`

	e, err := scanEngagement(r.pool.QueryRow(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get engagement by match: %w", err)
	}

	return e, nil
}

// ListByParty retrieves engagements where the user is buyer or supplier,
// newest first.
func (r *Repository) ListByParty(ctx context.Context, userID uuid.UUID) ([]Engagement, error) {
	query := `SELECT ` + engagementColumns + `
		FROM engagements WHERE buyer_id = $1 OR supplier_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	defer rows.Close()

	var out []Engagement
	for rows.Next() {
		e, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read engagements: %w", err)
	}

	return out, nil
}

// ApplyStatusUpdate persists a validated transition. The WHERE clause on the
// previous status makes the write a compare-and-swap: if another writer moved
// the engagement first, no row matches and a Conflict is returned so the
// caller re-validates against fresh state.
func (r *Repository) ApplyStatusUpdate(ctx context.Context, id uuid.UUID, upd StatusUpdate) error {
	query := `
		UPDATE engagements SET
			status = $1,
			deal_ping_expires_at = COALESCE($2, deal_ping_expires_at),
			review_expires_at = COALESCE($3, review_expires_at),
			tour_requested_at = COALESCE($4, tour_requested_at),
			agreement_sent_at = COALESCE($5, agreement_sent_at),
			tour_scheduled_for = COALESCE($6, tour_scheduled_for),
			decline_reason = COALESCE($7, decline_reason),
			tour_reschedule_count = tour_reschedule_count + $8,
			updated_at = NOW()
		WHERE id = $9 AND status = $10`

	increment := 0
	if upd.IncrementReschedule {
		increment = 1
	}

	tag, err := r.pool.Exec(ctx, query,
		upd.Status, upd.DealPingExpiresAt, upd.ReviewExpiresAt, upd.TourRequestedAt,
		upd.AgreementSentAt, upd.TourScheduledFor, upd.DeclineReason, increment,
		id, upd.PreviousStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update engagement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("engagement was modified concurrently")
	}

	return nil
}

// deadline columns that may appear in sweep queries, keyed by the lifecycle
// field names. Column names are never interpolated from caller input.
var deadlineColumns = map[string]string{
	domain.FieldDealPingExpiresAt: "deal_ping_expires_at",
	domain.FieldReviewExpiresAt:   "review_expires_at",
	domain.FieldTourRequestedAt:   "tour_requested_at",
	domain.FieldAgreementSentAt:   "agreement_sent_at",
}

// ListLapsed retrieves engagements sitting in the given status whose mapped
// deadline field lapsed more than the grace window ago. Used by the sweeper.
func (r *Repository) ListLapsed(ctx context.Context, status string, field string, grace time.Duration, now time.Time) ([]Engagement, error) {
	column, ok := deadlineColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown deadline field %q", field)
	}

	query := `SELECT ` + engagementColumns + `
		FROM engagements
		WHERE status = $1 AND ` + column + ` IS NOT NULL AND ` + column + ` < $2
		ORDER BY ` + column + ` ASC
		LIMIT 500`

	rows, err := r.pool.Query(ctx, query, status, now.Add(-grace))
	if err != nil {
		return nil, fmt.Errorf("failed to list lapsed engagements: %w", err)
	}
	defer rows.Close()

	var out []Engagement
	for rows.Next() {
		e, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lapsed engagements: %w", err)
	}

	return out, nil
}

// CountActiveForWarehouse reports how many live engagements a warehouse has.
// Used to hold a listing off the clearing pool while a deal is in flight.
func (r *Repository) CountActiveForWarehouse(ctx context.Context, warehouseID uuid.UUID, terminalStatuses []string) (int, error) {
	query := `SELECT COUNT(*) FROM engagements WHERE warehouse_id = $1 AND NOT (status = ANY($2))`

	var count int
	if err := r.pool.QueryRow(ctx, query, warehouseID, terminalStatuses).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active engagements: %w", err)
	}

	return count, nil
}
