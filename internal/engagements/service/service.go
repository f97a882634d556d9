// Package service provides business logic for the engagement lifecycle.
package service

import (
	"context"
	"errors"
	"time"

	"wex_backend/internal/engagements/domain"
	"wex_backend/internal/engagements/repository"
	"wex_backend/internal/engagements/transport"
	"wex_backend/internal/events"
	"wex_backend/platform/apperr"
	"wex_backend/platform/logger"

	"github.com/google/uuid"
)

// Lifecycle windows stamped when an engagement enters a deadline-bearing
// status. The grace applied past tour_requested_at and agreement_sent_at
// lives in the domain's deadline rules.
const (
	dealPingWindow = 24 * time.Hour
	reviewWindow   = 72 * time.Hour
)

// MatchLookup provides the match fields needed to open an engagement.
// Implemented by the matching module's service.
type MatchLookup interface {
	GetMatchParties(ctx context.Context, matchID uuid.UUID) (*MatchParties, error)
}

// MatchParties identifies the need, warehouse, and both sides of a match.
type MatchParties struct {
	MatchID     uuid.UUID
	NeedID      uuid.UUID
	WarehouseID uuid.UUID
	BuyerID     uuid.UUID
	SupplierID  uuid.UUID
}

// Service provides business logic for engagements
type Service struct {
	repo     *repository.Repository
	matches  MatchLookup
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new engagements service
func New(repo *repository.Repository, matches MatchLookup, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		matches:  matches,
		eventBus: eventBus,
		log:      log,
	}
}

// Create opens an engagement for a match the buyer selected. The engagement
// starts at DEAL_PING_SENT with the supplier on the clock.
func (s *Service) Create(ctx context.Context, buyerID uuid.UUID, req transport.CreateEngagementRequest) (*transport.EngagementResponse, error) {
	parties, err := s.matches.GetMatchParties(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	if parties.BuyerID != buyerID {
		return nil, apperr.Forbidden("match does not belong to this buyer")
	}

	existing, err := s.repo.GetByMatchID(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("engagement already exists for this match")
	}

	now := time.Now().UTC()
	pingExpiry := now.Add(dealPingWindow)
	eng := &repository.Engagement{
		ID:                uuid.New(),
		MatchID:           parties.MatchID,
		NeedID:            parties.NeedID,
		WarehouseID:       parties.WarehouseID,
		BuyerID:           parties.BuyerID,
		SupplierID:        parties.SupplierID,
		Status:            string(domain.StatusDealPingSent),
		DealPingExpiresAt: &pingExpiry,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, eng); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.EngagementCreated{
		BaseEvent:    events.NewBaseEvent(),
		EngagementID: eng.ID,
		MatchID:      eng.MatchID,
		BuyerID:      eng.BuyerID,
		SupplierID:   eng.SupplierID,
		Status:       eng.Status,
	})

	return toResponse(eng), nil
}

// GetByID retrieves an engagement visible to the caller.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) (*transport.EngagementResponse, error) {
	eng, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := actorFor(eng, userID, role); err != nil {
		return nil, err
	}
	return toResponse(eng), nil
}

// ListForUser retrieves the engagements where the user is a party.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]transport.EngagementResponse, error) {
	engs, err := s.repo.ListByParty(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.EngagementResponse, 0, len(engs))
	for i := range engs {
		out = append(out, *toResponse(&engs[i]))
	}
	return out, nil
}

// Transition validates and applies a lifecycle move on behalf of a user.
// Validation happens before any mutation; persistence is a compare-and-swap
// on the previous status so concurrent moves lose cleanly.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string, req transport.TransitionRequest) (*transport.EngagementResponse, error) {
	eng, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actor, err := actorFor(eng, userID, role)
	if err != nil {
		return nil, err
	}

	target := domain.Status(req.TargetStatus)
	if !domain.IsKnownStatus(target) {
		return nil, apperr.Validation("unknown target status")
	}

	current := domain.Status(eng.Status)
	if err := domain.ValidateTransition(current, target, actor, lifecycleView{eng}); err != nil {
		var terr *domain.TransitionError
		if errors.As(err, &terr) {
			s.log.TransitionRejected(eng.ID.String(), eng.Status, req.TargetStatus, string(actor), string(terr.Reason))
			return nil, apperr.Validation(terr.Error())
		}
		return nil, err
	}

	upd := buildStatusUpdate(eng.Status, target, req, time.Now().UTC())
	if err := s.repo.ApplyStatusUpdate(ctx, eng.ID, upd); err != nil {
		return nil, err
	}

	s.log.EngagementTransition(eng.ID.String(), eng.Status, string(target), string(actor))
	s.eventBus.Publish(ctx, events.EngagementTransitioned{
		BaseEvent:    events.NewBaseEvent(),
		EngagementID: eng.ID,
		BuyerID:      eng.BuyerID,
		SupplierID:   eng.SupplierID,
		FromStatus:   eng.Status,
		ToStatus:     string(target),
		Actor:        string(actor),
	})
	if target == domain.StatusAgreementSigned {
		s.eventBus.Publish(ctx, events.AgreementSigned{
			BaseEvent:    events.NewBaseEvent(),
			EngagementID: eng.ID,
			BuyerID:      eng.BuyerID,
			SupplierID:   eng.SupplierID,
		})
	}

	return s.GetByID(ctx, id, userID, role)
}

// AllowedActions enumerates the lifecycle moves available to the caller from
// the engagement's current status.
func (s *Service) AllowedActions(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) (*transport.AllowedActionsResponse, error) {
	eng, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, err := actorFor(eng, userID, role)
	if err != nil {
		return nil, err
	}

	targets := domain.AllowedTransitions(domain.Status(eng.Status), actor)
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, string(t))
	}
	return &transport.AllowedActionsResponse{Status: eng.Status, AllowedTargets: out}, nil
}

// HasActiveEngagement reports whether a warehouse is tied up in any
// non-terminal engagement. The clearing engine uses this to hold the listing
// out of new runs while a deal is in flight.
func (s *Service) HasActiveEngagement(ctx context.Context, warehouseID uuid.UUID) (bool, error) {
	terminal := make([]string, 0, len(domain.TerminalStates))
	for status := range domain.TerminalStates {
		terminal = append(terminal, string(status))
	}

	count, err := s.repo.CountActiveForWarehouse(ctx, warehouseID, terminal)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExpireLapsed sweeps every deadline-bearing status and moves engagements
// whose deadline has lapsed into the matching expiry status. Returns how many
// were expired. Concurrent sweeps are safe: the compare-and-swap write makes
// double-expiry a no-op conflict, which is skipped.
func (s *Service) ExpireLapsed(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	expired := 0

	for status, rule := range domain.DeadlineFields {
		lapsed, err := s.repo.ListLapsed(ctx, string(status), rule.Field, rule.Grace, now)
		if err != nil {
			return expired, err
		}

		for i := range lapsed {
			eng := &lapsed[i]
			target := domain.ExpiryTarget(status)
			if err := domain.ValidateTransition(status, target, domain.ActorSystem, lifecycleView{eng}); err != nil {
				continue
			}

			upd := repository.StatusUpdate{Status: string(target), PreviousStatus: eng.Status}
			if err := s.repo.ApplyStatusUpdate(ctx, eng.ID, upd); err != nil {
				if apperr.Is(err, apperr.KindConflict) {
					continue
				}
				return expired, err
			}

			expired++
			s.log.EngagementTransition(eng.ID.String(), eng.Status, string(target), string(domain.ActorSystem))
			s.eventBus.Publish(ctx, events.EngagementExpired{
				BaseEvent:    events.NewBaseEvent(),
				EngagementID: eng.ID,
				BuyerID:      eng.BuyerID,
				SupplierID:   eng.SupplierID,
				FromStatus:   eng.Status,
				ToStatus:     string(target),
			})
		}
	}

	return expired, nil
}

// lifecycleView adapts the database model to the lifecycle validator's
// read-only view.
type lifecycleView struct {
	eng *repository.Engagement
}

func (v lifecycleView) Status() domain.Status              { return domain.Status(v.eng.Status) }
func (v lifecycleView) DeadlineAt(field string) *time.Time { return v.eng.DeadlineAt(field) }
func (v lifecycleView) TourRescheduleCount() int           { return v.eng.TourRescheduleCount }

// actorFor maps the caller's role onto a lifecycle actor, enforcing that
// buyers and suppliers only act on their own engagements.
func actorFor(eng *repository.Engagement, userID uuid.UUID, role string) (domain.Actor, error) {
	switch role {
	case "admin":
		return domain.ActorAdmin, nil
	case "buyer":
		if eng.BuyerID != userID {
			return "", apperr.Forbidden("engagement does not belong to this buyer")
		}
		return domain.ActorBuyer, nil
	case "supplier":
		if eng.SupplierID != userID {
			return "", apperr.Forbidden("engagement does not belong to this supplier")
		}
		return domain.ActorSupplier, nil
	default:
		return "", apperr.Forbidden("role cannot act on engagements")
	}
}

// buildStatusUpdate stamps the deadline clock for the status being entered
// and carries over reason/tour-time details from the request.
func buildStatusUpdate(previous string, target domain.Status, req transport.TransitionRequest, now time.Time) repository.StatusUpdate {
	upd := repository.StatusUpdate{
		Status:         string(target),
		PreviousStatus: previous,
	}

	switch target {
	case domain.StatusDealPingSent:
		at := now.Add(dealPingWindow)
		upd.DealPingExpiresAt = &at
	case domain.StatusBuyerReviewing:
		at := now.Add(reviewWindow)
		upd.ReviewExpiresAt = &at
	case domain.StatusTourRequested:
		at := now
		upd.TourRequestedAt = &at
		upd.TourScheduledFor = req.TourTime
	case domain.StatusTourRescheduled:
		upd.IncrementReschedule = true
		upd.TourScheduledFor = req.TourTime
	case domain.StatusTourConfirmed:
		upd.TourScheduledFor = req.TourTime
	case domain.StatusAgreementSent:
		at := now
		upd.AgreementSentAt = &at
	case domain.StatusDeclinedByBuyer, domain.StatusDeclinedBySupplier,
		domain.StatusDealPingDeclined, domain.StatusCancelled:
		if req.Reason != "" {
			reason := req.Reason
			upd.DeclineReason = &reason
		}
	}

	return upd
}

func toResponse(e *repository.Engagement) *transport.EngagementResponse {
	return &transport.EngagementResponse{
		ID:                  e.ID,
		MatchID:             e.MatchID,
		NeedID:              e.NeedID,
		WarehouseID:         e.WarehouseID,
		BuyerID:             e.BuyerID,
		SupplierID:          e.SupplierID,
		Status:              e.Status,
		TourRescheduleCount: e.TourRescheduleCount,
		TourScheduledFor:    e.TourScheduledFor,
		DealPingExpiresAt:   e.DealPingExpiresAt,
		ReviewExpiresAt:     e.ReviewExpiresAt,
		DeclineReason:       e.DeclineReason,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}
