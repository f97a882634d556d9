// Package domain provides the engagement lifecycle rules for the
// engagements bounded context. The state machine here is a pure validator:
// it never mutates an engagement, it only judges proposed moves.
package domain

// Status is an engagement's position in the deal lifecycle.
type Status string

const (
	// Ping phase: a supplier is asked whether the space is still available.
	StatusDealPingSent     Status = "DEAL_PING_SENT"
	StatusDealPingAccepted Status = "DEAL_PING_ACCEPTED"
	StatusDealPingDeclined Status = "DEAL_PING_DECLINED"
	StatusDealPingExpired  Status = "DEAL_PING_EXPIRED"

	// Review phase: the buyer evaluates the match.
	StatusMatched        Status = "MATCHED"
	StatusBuyerReviewing Status = "BUYER_REVIEWING"
	StatusBuyerAccepted  Status = "BUYER_ACCEPTED"

	// Commitment phase: identity, guarantee, address reveal.
	StatusContactCaptured Status = "CONTACT_CAPTURED"
	StatusGuaranteeSigned Status = "GUARANTEE_SIGNED"
	StatusAddressRevealed Status = "ADDRESS_REVEALED"

	// Tour phase.
	StatusTourRequested   Status = "TOUR_REQUESTED"
	StatusTourConfirmed   Status = "TOUR_CONFIRMED"
	StatusTourRescheduled Status = "TOUR_RESCHEDULED"
	StatusTourCompleted   Status = "TOUR_COMPLETED"

	// Closing phase.
	StatusInstantBookRequested Status = "INSTANT_BOOK_REQUESTED"
	StatusBuyerConfirmed       Status = "BUYER_CONFIRMED"
	StatusAgreementSent        Status = "AGREEMENT_SENT"
	StatusAgreementSigned      Status = "AGREEMENT_SIGNED"
	StatusOnboarding           Status = "ONBOARDING"
	StatusActive               Status = "ACTIVE"
	StatusCompleted            Status = "COMPLETED"

	// Terminal failure states.
	StatusDeclinedByBuyer    Status = "DECLINED_BY_BUYER"
	StatusDeclinedBySupplier Status = "DECLINED_BY_SUPPLIER"
	StatusCancelled          Status = "CANCELLED"
	StatusExpired            Status = "EXPIRED"
)

// Actor is the party attempting a lifecycle move.
type Actor string

const (
	ActorBuyer    Actor = "buyer"
	ActorSupplier Actor = "supplier"
	ActorAdmin    Actor = "admin"
	ActorSystem   Actor = "system"
)

// TerminalStates are statuses with no outgoing transitions. Nothing moves
// an engagement out of these, admin included.
var TerminalStates = map[Status]bool{
	StatusCompleted:          true,
	StatusDealPingDeclined:   true,
	StatusDealPingExpired:    true,
	StatusDeclinedByBuyer:    true,
	StatusDeclinedBySupplier: true,
	StatusCancelled:          true,
	StatusExpired:            true,
}

// BuyerDeclineStates are all statuses a buyer may walk away from: any point
// in the funnel after matching and before lease signing.
var BuyerDeclineStates = map[Status]bool{
	StatusBuyerReviewing:       true,
	StatusBuyerAccepted:        true,
	StatusContactCaptured:      true,
	StatusGuaranteeSigned:      true,
	StatusAddressRevealed:      true,
	StatusTourRequested:        true,
	StatusTourConfirmed:        true,
	StatusTourRescheduled:      true,
	StatusTourCompleted:        true,
	StatusInstantBookRequested: true,
}

// SupplierDeclineStates are the tour-phase statuses a supplier may back out
// of. After a buyer has toured and is deciding, the supplier is committed.
var SupplierDeclineStates = map[Status]bool{
	StatusTourRequested:   true,
	StatusTourConfirmed:   true,
	StatusTourRescheduled: true,
}

// IsTerminal reports whether the status permits no further transitions.
func IsTerminal(status Status) bool {
	return TerminalStates[status]
}

// IsCancellable reports whether admin/system may cancel from this status.
// Every non-terminal status is cancellable.
func IsCancellable(status Status) bool {
	return knownStatuses[status] && !TerminalStates[status]
}

// IsKnownStatus reports whether the value is part of the lifecycle vocabulary.
func IsKnownStatus(status Status) bool {
	return knownStatuses[status]
}

var knownStatuses = map[Status]bool{
	StatusDealPingSent:         true,
	StatusDealPingAccepted:     true,
	StatusDealPingDeclined:     true,
	StatusDealPingExpired:      true,
	StatusMatched:              true,
	StatusBuyerReviewing:       true,
	StatusBuyerAccepted:        true,
	StatusContactCaptured:      true,
	StatusGuaranteeSigned:      true,
	StatusAddressRevealed:      true,
	StatusTourRequested:        true,
	StatusTourConfirmed:        true,
	StatusTourRescheduled:      true,
	StatusTourCompleted:        true,
	StatusInstantBookRequested: true,
	StatusBuyerConfirmed:       true,
	StatusAgreementSent:        true,
	StatusAgreementSigned:      true,
	StatusOnboarding:           true,
	StatusActive:               true,
	StatusCompleted:            true,
	StatusDeclinedByBuyer:      true,
	StatusDeclinedBySupplier:   true,
	StatusCancelled:            true,
	StatusExpired:              true,
}

// AllStatuses returns the full lifecycle vocabulary in funnel order.
func AllStatuses() []Status {
	return []Status{
		StatusDealPingSent, StatusDealPingAccepted, StatusDealPingDeclined, StatusDealPingExpired,
		StatusMatched, StatusBuyerReviewing, StatusBuyerAccepted,
		StatusContactCaptured, StatusGuaranteeSigned, StatusAddressRevealed,
		StatusTourRequested, StatusTourConfirmed, StatusTourRescheduled, StatusTourCompleted,
		StatusInstantBookRequested, StatusBuyerConfirmed,
		StatusAgreementSent, StatusAgreementSigned, StatusOnboarding, StatusActive, StatusCompleted,
		StatusDeclinedByBuyer, StatusDeclinedBySupplier, StatusCancelled, StatusExpired,
	}
}
