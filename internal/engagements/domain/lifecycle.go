package domain

import (
	"fmt"
	"time"
)

// MaxTourReschedules is how many times a tour may be rescheduled before
// admin intervention is required.
const MaxTourReschedules = 2

// Deadline field names on the engagement record.
const (
	FieldDealPingExpiresAt = "deal_ping_expires_at"
	FieldReviewExpiresAt   = "review_expires_at"
	FieldTourRequestedAt   = "tour_requested_at"
	FieldAgreementSentAt   = "agreement_sent_at"
)

// DeadlineRule binds a status to the engagement field holding its clock and
// the grace window past that timestamp. Expiry fields carry zero grace; event
// timestamps (tour_requested_at, agreement_sent_at) get a window in which the
// counterparty must act.
type DeadlineRule struct {
	Field string
	Grace time.Duration
}

// DeadlineFields maps each deadline-bearing status to its rule. Statuses
// absent from this map have no deadline concept.
var DeadlineFields = map[Status]DeadlineRule{
	StatusDealPingSent:   {Field: FieldDealPingExpiresAt},
	StatusBuyerReviewing: {Field: FieldReviewExpiresAt},
	StatusTourRequested:  {Field: FieldTourRequestedAt, Grace: 48 * time.Hour},
	StatusAgreementSent:  {Field: FieldAgreementSentAt, Grace: 7 * 24 * time.Hour},
}

// State is the read-only view of an engagement the validator needs. The
// validator never mutates the underlying record; persisting a transition,
// stamping deadlines, and bumping the reschedule counter are the caller's job.
type State interface {
	Status() Status
	DeadlineAt(field string) *time.Time
	TourRescheduleCount() int
}

// Reason classifies why a transition was rejected.
type Reason string

const (
	ReasonNoTransitions     Reason = "no_transitions_from_state"
	ReasonNotAllowed        Reason = "transition_not_allowed"
	ReasonActorNotPermitted Reason = "actor_not_permitted"
	ReasonDeadlinePassed    Reason = "deadline_passed"
	ReasonRescheduleLimit   Reason = "reschedule_limit_reached"
)

// TransitionError is a local validation failure: the requested move is not
// legal for this engagement right now. It is never transient or retryable.
type TransitionError struct {
	From   Status
	To     Status
	Actor  Actor
	Reason Reason
}

func (e *TransitionError) Error() string {
	switch e.Reason {
	case ReasonNoTransitions:
		return fmt.Sprintf("no transitions allowed from %s", e.From)
	case ReasonNotAllowed:
		return fmt.Sprintf("transition %s -> %s not allowed", e.From, e.To)
	case ReasonActorNotPermitted:
		return fmt.Sprintf("actor %s not permitted for %s -> %s", e.Actor, e.From, e.To)
	case ReasonDeadlinePassed:
		return fmt.Sprintf("deadline has passed for %s", e.From)
	case ReasonRescheduleLimit:
		return fmt.Sprintf("tour reschedule limit (%d) reached, admin intervention required", MaxTourReschedules)
	default:
		return fmt.Sprintf("transition %s -> %s rejected", e.From, e.To)
	}
}

// transitionMap holds the explicit lifecycle edges: from -> to -> actors
// permitted to trigger the move. Cross-cutting rules (admin override, buyer
// and supplier declines, cancellation) are layered on top in
// ValidateTransition rather than encoded as edges here. Terminal statuses
// never appear as keys.
var transitionMap = map[Status]map[Status]map[Actor]bool{
	StatusDealPingSent: {
		StatusDealPingAccepted: {ActorSupplier: true},
		StatusDealPingDeclined: {ActorSupplier: true},
		StatusDealPingExpired:  {ActorSystem: true},
	},
	StatusDealPingAccepted: {
		StatusMatched: {ActorSystem: true},
	},
	StatusMatched: {
		StatusBuyerReviewing: {ActorBuyer: true, ActorSystem: true},
	},
	StatusBuyerReviewing: {
		StatusBuyerAccepted: {ActorBuyer: true},
		StatusExpired:       {ActorSystem: true},
	},
	StatusBuyerAccepted: {
		StatusContactCaptured:      {ActorBuyer: true, ActorSystem: true},
		StatusInstantBookRequested: {ActorBuyer: true},
	},
	StatusContactCaptured: {
		StatusGuaranteeSigned: {ActorBuyer: true, ActorSystem: true},
	},
	StatusGuaranteeSigned: {
		StatusAddressRevealed: {ActorSystem: true},
	},
	StatusAddressRevealed: {
		StatusTourRequested:        {ActorBuyer: true},
		StatusInstantBookRequested: {ActorBuyer: true},
	},
	StatusTourRequested: {
		StatusTourConfirmed:   {ActorSupplier: true},
		StatusTourRescheduled: {ActorBuyer: true, ActorSupplier: true},
		StatusExpired:         {ActorSystem: true},
	},
	StatusTourConfirmed: {
		StatusTourCompleted:   {ActorSupplier: true, ActorSystem: true},
		StatusTourRescheduled: {ActorBuyer: true, ActorSupplier: true},
	},
	StatusTourRescheduled: {
		StatusTourConfirmed:   {ActorSupplier: true},
		StatusTourRescheduled: {ActorBuyer: true, ActorSupplier: true},
		StatusExpired:         {ActorSystem: true},
	},
	StatusTourCompleted: {
		StatusBuyerConfirmed: {ActorBuyer: true},
	},
	StatusInstantBookRequested: {
		StatusBuyerConfirmed: {ActorSystem: true},
	},
	StatusBuyerConfirmed: {
		StatusAgreementSent: {ActorSystem: true},
	},
	StatusAgreementSent: {
		StatusAgreementSigned: {ActorBuyer: true, ActorSupplier: true, ActorSystem: true},
		StatusExpired:         {ActorSystem: true},
	},
	StatusAgreementSigned: {
		StatusOnboarding: {ActorSystem: true},
	},
	StatusOnboarding: {
		StatusActive: {ActorSystem: true},
	},
	StatusActive: {
		StatusCompleted: {ActorSystem: true},
	},
}

// ValidateTransition judges whether actor may move an engagement from current
// to target, using the wall clock for deadline checks. A nil error means the
// move is legal; any rejection is a *TransitionError. The engagement may be
// nil when the caller has no record in hand (deadline and reschedule checks
// are then skipped).
func ValidateTransition(current, target Status, actor Actor, eng State) error {
	return validateTransitionAt(current, target, actor, eng, time.Now().UTC())
}

func validateTransitionAt(current, target Status, actor Actor, eng State, now time.Time) error {
	reject := func(reason Reason) error {
		return &TransitionError{From: current, To: target, Actor: actor, Reason: reason}
	}

	// Admin override: any move out of a non-terminal status. Terminal states
	// are final for everyone, support included.
	if actor == ActorAdmin {
		if IsTerminal(current) {
			return reject(ReasonNoTransitions)
		}
		return nil
	}

	// Buyer walk-away: permitted from any pre-signing funnel position.
	if target == StatusDeclinedByBuyer && actor == ActorBuyer && BuyerDeclineStates[current] {
		return nil
	}

	// Supplier back-out: tour phase only.
	if target == StatusDeclinedBySupplier && actor == ActorSupplier && SupplierDeclineStates[current] {
		return nil
	}

	// System cancellation of any live engagement.
	if target == StatusCancelled && actor == ActorSystem && IsCancellable(current) {
		return nil
	}

	targets, ok := transitionMap[current]
	if !ok {
		return reject(ReasonNoTransitions)
	}
	actors, ok := targets[target]
	if !ok {
		return reject(ReasonNotAllowed)
	}
	if !actors[actor] {
		return reject(ReasonActorNotPermitted)
	}

	// A lapsed deadline blocks everything except the move into the expiry
	// status itself, which must stay reachable so sweeps can self-correct.
	if target != StatusDealPingExpired && target != StatusExpired {
		if eng != nil && deadlinePassedAt(eng, now) {
			return reject(ReasonDeadlinePassed)
		}
	}

	if target == StatusTourRescheduled && eng != nil {
		if eng.TourRescheduleCount() >= MaxTourReschedules {
			return reject(ReasonRescheduleLimit)
		}
	}

	return nil
}

// AllowedTransitions enumerates every target ValidateTransition would accept
// for this actor from the given status, in funnel order and without
// duplicates. Deadline and reschedule constraints are per-engagement and are
// not consulted here; this drives UI affordances, not final authorization.
func AllowedTransitions(current Status, actor Actor) []Status {
	if IsTerminal(current) || !knownStatuses[current] {
		return nil
	}

	allowed := make(map[Status]bool)
	if actor == ActorAdmin {
		for _, s := range AllStatuses() {
			if s != current {
				allowed[s] = true
			}
		}
	} else {
		for target, actors := range transitionMap[current] {
			if actors[actor] {
				allowed[target] = true
			}
		}
		if actor == ActorBuyer && BuyerDeclineStates[current] {
			allowed[StatusDeclinedByBuyer] = true
		}
		if actor == ActorSupplier && SupplierDeclineStates[current] {
			allowed[StatusDeclinedBySupplier] = true
		}
		if actor == ActorSystem {
			allowed[StatusCancelled] = true
		}
	}

	out := make([]Status, 0, len(allowed))
	for _, s := range AllStatuses() {
		if allowed[s] {
			out = append(out, s)
		}
	}
	return out
}

// DeadlinePassed reports whether the engagement's current status carries a
// deadline that has lapsed. Statuses without a deadline concept, and unset
// deadline fields, report false. Background sweeps use this to find
// engagements needing auto-expiry.
func DeadlinePassed(eng State) bool {
	return deadlinePassedAt(eng, time.Now().UTC())
}

func deadlinePassedAt(eng State, now time.Time) bool {
	rule, ok := DeadlineFields[eng.Status()]
	if !ok {
		return false
	}
	at := eng.DeadlineAt(rule.Field)
	if at == nil {
		return false
	}
	return now.After(at.UTC().Add(rule.Grace))
}

// ExpiryTarget returns the status an engagement should be swept into when
// its deadline lapses. The ping phase has its own expiry status; everything
// else collapses into EXPIRED.
func ExpiryTarget(current Status) Status {
	if current == StatusDealPingSent {
		return StatusDealPingExpired
	}
	return StatusExpired
}
