// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"wex_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Needs Domain Events
// =============================================================================

// NeedCreated is published when a buyer need enters the system, from the web
// form, the SMS intake flow, or voice transcription.
type NeedCreated struct {
	BaseEvent
	NeedID  uuid.UUID `json:"needId"`
	BuyerID uuid.UUID `json:"buyerId"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	UseType string    `json:"useType"`
	Source  string    `json:"source"`
}

func (e NeedCreated) EventName() string { return "needs.need.created" }

// =============================================================================
// Warehouses Domain Events
// =============================================================================

// WarehouseListed is published when a supplier warehouse becomes listable.
type WarehouseListed struct {
	BaseEvent
	WarehouseID uuid.UUID `json:"warehouseId"`
	SupplierID  uuid.UUID `json:"supplierId"`
	City        string    `json:"city"`
	State       string    `json:"state"`
}

func (e WarehouseListed) EventName() string { return "warehouses.warehouse.listed" }

// =============================================================================
// Matching Domain Events
// =============================================================================

// MatchesCleared is published after a clearing run scores and persists the
// candidate set for a need.
type MatchesCleared struct {
	BaseEvent
	NeedID     uuid.UUID `json:"needId"`
	BuyerID    uuid.UUID `json:"buyerId"`
	City       string    `json:"city"`
	MatchCount int       `json:"matchCount"`
	TopScore   float64   `json:"topScore"`
}

func (e MatchesCleared) EventName() string { return "matching.matches.cleared" }

// MatchRescored is published when the async feature evaluation updates a
// match's composite score.
type MatchRescored struct {
	BaseEvent
	MatchID      uuid.UUID `json:"matchId"`
	NeedID       uuid.UUID `json:"needId"`
	FeatureScore float64   `json:"featureScore"`
	Composite    float64   `json:"composite"`
}

func (e MatchRescored) EventName() string { return "matching.match.rescored" }

// =============================================================================
// Engagements Domain Events
// =============================================================================

// EngagementCreated is published when a buyer picks a match and an
// engagement record is opened.
type EngagementCreated struct {
	BaseEvent
	EngagementID uuid.UUID `json:"engagementId"`
	MatchID      uuid.UUID `json:"matchId"`
	BuyerID      uuid.UUID `json:"buyerId"`
	SupplierID   uuid.UUID `json:"supplierId"`
	Status       string    `json:"status"`
}

func (e EngagementCreated) EventName() string { return "engagements.engagement.created" }

// EngagementTransitioned is published on every successful lifecycle move.
// Notification handlers fan out SMS and email from this single event.
type EngagementTransitioned struct {
	BaseEvent
	EngagementID uuid.UUID `json:"engagementId"`
	BuyerID      uuid.UUID `json:"buyerId"`
	SupplierID   uuid.UUID `json:"supplierId"`
	FromStatus   string    `json:"fromStatus"`
	ToStatus     string    `json:"toStatus"`
	Actor        string    `json:"actor"`
}

func (e EngagementTransitioned) EventName() string { return "engagements.engagement.transitioned" }

// EngagementExpired is published when the deadline sweeper moves an
// engagement into an expiry status.
type EngagementExpired struct {
	BaseEvent
	EngagementID uuid.UUID `json:"engagementId"`
	BuyerID      uuid.UUID `json:"buyerId"`
	SupplierID   uuid.UUID `json:"supplierId"`
	FromStatus   string    `json:"fromStatus"`
	ToStatus     string    `json:"toStatus"`
}

func (e EngagementExpired) EventName() string { return "engagements.engagement.expired" }

// AgreementSigned is published when both parties have executed the lease
// agreement, kicking off onboarding.
type AgreementSigned struct {
	BaseEvent
	EngagementID uuid.UUID `json:"engagementId"`
	BuyerID      uuid.UUID `json:"buyerId"`
	SupplierID   uuid.UUID `json:"supplierId"`
}

func (e AgreementSigned) EventName() string { return "engagements.agreement.signed" }
