// Package service provides business logic for buyer need intake.
package service

import (
	"context"
	"strings"
	"time"

	"wex_backend/internal/events"
	"wex_backend/internal/needs/repository"
	"wex_backend/internal/needs/transport"
	"wex_backend/platform/apperr"
	"wex_backend/platform/logger"

	"github.com/google/uuid"
)

// Need intake sources.
const (
	SourceWeb   = "web"
	SourceSMS   = "sms"
	SourceVoice = "voice"
)

// Need statuses.
const (
	StatusOpen    = "open"
	StatusCleared = "cleared"
	StatusClosed  = "closed"
)

// Geocoder resolves a city/state to coordinates. Implemented by the
// geocode client; nil when geocoding is not configured.
type Geocoder interface {
	Geocode(ctx context.Context, city, state string) (lat, lng float64, err error)
}

// ClearScheduler enqueues a clearing run for a need. Nil when background
// processing is not configured.
type ClearScheduler interface {
	EnqueueClearing(ctx context.Context, needID uuid.UUID) error
}

// Service provides business logic for needs
type Service struct {
	repo     *repository.Repository
	geocoder Geocoder
	clearing ClearScheduler
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new needs service
func New(repo *repository.Repository, geocoder Geocoder, clearing ClearScheduler, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		geocoder: geocoder,
		clearing: clearing,
		eventBus: eventBus,
		log:      log,
	}
}

// Create records a buyer need from any intake source, geocodes its location,
// and schedules a clearing run.
func (s *Service) Create(ctx context.Context, buyerID uuid.UUID, source string, req transport.CreateNeedRequest) (*transport.NeedResponse, error) {
	if req.MinSqft != nil && req.MaxSqft != nil && *req.MinSqft > *req.MaxSqft {
		return nil, apperr.Validation("minSqft cannot exceed maxSqft")
	}

	now := time.Now().UTC()
	need := &repository.Need{
		ID:               uuid.New(),
		BuyerID:          buyerID,
		City:             strings.TrimSpace(req.City),
		State:            strings.ToUpper(strings.TrimSpace(req.State)),
		RadiusMiles:      req.RadiusMiles,
		MinSqft:          req.MinSqft,
		MaxSqft:          req.MaxSqft,
		UseType:          strings.ToLower(strings.TrimSpace(req.UseType)),
		NeededFrom:       strings.TrimSpace(req.NeededFrom),
		DurationMonths:   req.DurationMonths,
		MaxBudgetPerSqft: req.MaxBudgetPerSqft,
		Requirements:     req.Requirements,
		Source:           source,
		Status:           StatusOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if s.geocoder != nil {
		if lat, lng, err := s.geocoder.Geocode(ctx, need.City, need.State); err != nil {
			s.log.Warn("geocoding failed, clearing will fall back to state filter", "needId", need.ID, "error", err)
		} else {
			need.Lat = &lat
			need.Lng = &lng
		}
	}

	if err := s.repo.Create(ctx, need); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.NeedCreated{
		BaseEvent: events.NewBaseEvent(),
		NeedID:    need.ID,
		BuyerID:   need.BuyerID,
		City:      need.City,
		State:     need.State,
		UseType:   need.UseType,
		Source:    source,
	})

	if s.clearing != nil {
		if err := s.clearing.EnqueueClearing(ctx, need.ID); err != nil {
			s.log.Warn("failed to enqueue clearing run", "needId", need.ID, "error", err)
		}
	}

	return toResponse(need), nil
}

// GetByID retrieves a need visible to the caller.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) (*transport.NeedResponse, error) {
	need, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == "buyer" && need.BuyerID != userID {
		return nil, apperr.Forbidden("need does not belong to this buyer")
	}
	return toResponse(need), nil
}

// ListForBuyer retrieves the caller's needs.
func (s *Service) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]transport.NeedResponse, error) {
	needs, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.NeedResponse, 0, len(needs))
	for i := range needs {
		out = append(out, *toResponse(&needs[i]))
	}
	return out, nil
}

// Close marks a need as closed so it stops participating in clearing runs.
func (s *Service) Close(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) error {
	need, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role == "buyer" && need.BuyerID != userID {
		return apperr.Forbidden("need does not belong to this buyer")
	}
	return s.repo.UpdateStatus(ctx, id, StatusClosed)
}

// MarkCleared records that a clearing run produced matches for the need.
func (s *Service) MarkCleared(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusCleared)
}

// GetRaw returns the stored need record for cross-module consumers.
func (s *Service) GetRaw(ctx context.Context, id uuid.UUID) (*repository.Need, error) {
	return s.repo.GetByID(ctx, id)
}

func toResponse(n *repository.Need) *transport.NeedResponse {
	return &transport.NeedResponse{
		ID:               n.ID,
		BuyerID:          n.BuyerID,
		City:             n.City,
		State:            n.State,
		Lat:              n.Lat,
		Lng:              n.Lng,
		RadiusMiles:      n.RadiusMiles,
		MinSqft:          n.MinSqft,
		MaxSqft:          n.MaxSqft,
		UseType:          n.UseType,
		NeededFrom:       n.NeededFrom,
		DurationMonths:   n.DurationMonths,
		MaxBudgetPerSqft: n.MaxBudgetPerSqft,
		Requirements:     n.Requirements,
		Source:           n.Source,
		Status:           n.Status,
		CreatedAt:        n.CreatedAt,
	}
}
