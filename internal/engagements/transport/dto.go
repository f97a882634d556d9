package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateEngagementRequest opens an engagement for a match the buyer picked.
type CreateEngagementRequest struct {
	MatchID uuid.UUID `json:"matchId" validate:"required"`
}

// TransitionRequest is the request body for a lifecycle move.
type TransitionRequest struct {
	TargetStatus string     `json:"targetStatus" validate:"required"`
	Reason       string     `json:"reason,omitempty" validate:"max=500"`
	TourTime     *time.Time `json:"tourTime,omitempty"`
}

// EngagementResponse is the engagement as rendered to clients.
type EngagementResponse struct {
	ID                  uuid.UUID  `json:"id"`
	MatchID             uuid.UUID  `json:"matchId"`
	NeedID              uuid.UUID  `json:"needId"`
	WarehouseID         uuid.UUID  `json:"warehouseId"`
	BuyerID             uuid.UUID  `json:"buyerId"`
	SupplierID          uuid.UUID  `json:"supplierId"`
	Status              string     `json:"status"`
	TourRescheduleCount int        `json:"tourRescheduleCount"`
	TourScheduledFor    *time.Time `json:"tourScheduledFor,omitempty"`
	DealPingExpiresAt   *time.Time `json:"dealPingExpiresAt,omitempty"`
	ReviewExpiresAt     *time.Time `json:"reviewExpiresAt,omitempty"`
	DeclineReason       *string    `json:"declineReason,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// AllowedActionsResponse lists the lifecycle moves available to the caller,
// used by clients to decide which buttons to render.
type AllowedActionsResponse struct {
	Status         string   `json:"status"`
	AllowedTargets []string `json:"allowedTargets"`
}
