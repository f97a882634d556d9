// Package service provides the clearing engine: candidate selection, scoring,
// ranking, and match persistence for buyer needs.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wex_backend/internal/events"
	"wex_backend/internal/matching/domain"
	"wex_backend/internal/matching/repository"
	"wex_backend/internal/matching/transport"
	"wex_backend/platform/apperr"
	"wex_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// coPrimaryLimit caps how many state-filtered candidates enter a run.
	coPrimaryLimit = 50
	// knnFallbackLimit caps the nearest-neighbor fallback fetch.
	knnFallbackLimit = 25
	// minCandidates is the co-primary yield below which the fallback kicks in.
	minCandidates = 5
	// scoringConcurrency bounds the parallel scoring workers per run.
	scoringConcurrency = 8

	dateLayout = "2006-01-02"
)

// ClearingNeed is the buyer need as the clearing engine consumes it.
type ClearingNeed struct {
	ID               uuid.UUID
	BuyerID          uuid.UUID
	City             string
	State            string
	Lat              *float64
	Lng              *float64
	RadiusMiles      float64
	MinSqft          *float64
	MaxSqft          *float64
	UseType          string
	NeededFrom       string
	DurationMonths   int
	MaxBudgetPerSqft *float64
	Requirements     map[string]string
}

// NeedProvider supplies needs to the clearing engine. Implemented by the
// needs module's service via an adapter.
type NeedProvider interface {
	GetNeedForClearing(ctx context.Context, needID uuid.UUID) (*ClearingNeed, error)
}

// HoldChecker reports whether a warehouse is tied up in a live engagement
// and should sit out clearing runs.
type HoldChecker interface {
	HasActiveEngagement(ctx context.Context, warehouseID uuid.UUID) (bool, error)
}

// FeatureScorer enqueues the async feature evaluation for a match.
// Nil when background processing is not configured.
type FeatureScorer interface {
	EnqueueFeatureScore(ctx context.Context, matchID uuid.UUID) error
}

// FeatureEvaluator judges how well a warehouse's feature set covers a need's
// free-form requirements. Implemented by the agent module; nil when no model
// is configured.
type FeatureEvaluator interface {
	EvaluateFeatures(ctx context.Context, facts FeatureFacts) (int, error)
}

// FeatureFacts is what the evaluator sees for a single match.
type FeatureFacts struct {
	Requirements   map[string]string
	ActivityTier   string
	HasOfficeSpace bool
	HasSprinkler   bool
	DockDoors      int
	DriveInDoors   int
	ParkingSpaces  int
}

// Parties identifies the need, warehouse, and both sides of a match.
type Parties struct {
	MatchID     uuid.UUID
	NeedID      uuid.UUID
	WarehouseID uuid.UUID
	BuyerID     uuid.UUID
	SupplierID  uuid.UUID
}

// Service provides the clearing and match business logic
type Service struct {
	repo      *repository.Repository
	needs     NeedProvider
	holds     HoldChecker
	features  FeatureScorer
	evaluator FeatureEvaluator
	eventBus  events.Bus
	log       *logger.Logger
}

// New creates a new matching service
func New(repo *repository.Repository, needs NeedProvider, holds HoldChecker, features FeatureScorer, evaluator FeatureEvaluator, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		needs:     needs,
		holds:     holds,
		features:  features,
		evaluator: evaluator,
		eventBus:  eventBus,
		log:       log,
	}
}

type scoredCandidate struct {
	candidate                  repository.Candidate
	breakdown                  domain.ScoreBreakdown
	budgetAlternativeAvailable bool
}

// Clear runs the clearing engine for a need: select candidates, score them
// concurrently, rank, tag budget context, persist, and hand the batch to the
// async feature evaluator.
func (s *Service) Clear(ctx context.Context, needID uuid.UUID) (*transport.ClearResultResponse, error) {
	started := time.Now()

	need, err := s.needs.GetNeedForClearing(ctx, needID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.selectCandidates(ctx, need)
	if err != nil {
		return nil, err
	}

	scored, err := s.scoreCandidates(ctx, need, candidates)
	if err != nil {
		return nil, err
	}

	rankScored(scored)
	applyBatchBudgetContext(scored, need.MaxBudgetPerSqft)

	now := time.Now().UTC()
	matches := make([]repository.Match, 0, len(scored))
	for i, sc := range scored {
		matches = append(matches, toMatch(need, sc, i+1, now))
	}

	if err := s.repo.ReplaceForNeed(ctx, needID, matches); err != nil {
		return nil, err
	}

	if s.features != nil {
		for i := range matches {
			if err := s.features.EnqueueFeatureScore(ctx, matches[i].ID); err != nil {
				s.log.Warn("failed to enqueue feature scoring", "matchId", matches[i].ID, "error", err)
			}
		}
	}

	topScore := 0.0
	if len(matches) > 0 {
		topScore = matches[0].CompositeScore
	}
	s.log.ClearingRun(needID.String(), len(candidates), len(matches), float64(time.Since(started).Milliseconds()))
	s.eventBus.Publish(ctx, events.MatchesCleared{
		BaseEvent:  events.NewBaseEvent(),
		NeedID:     needID,
		BuyerID:    need.BuyerID,
		City:       need.City,
		MatchCount: len(matches),
		TopScore:   topScore,
	})

	out := make([]transport.MatchResponse, 0, len(matches))
	for i := range matches {
		out = append(out, toResponse(&matches[i]))
	}
	return &transport.ClearResultResponse{NeedID: needID, Candidates: len(candidates), Matches: out}, nil
}

// selectCandidates applies the co-primary filter, falls back to the nearest
// listable warehouses when the yield is thin, and drops warehouses held by a
// live engagement.
func (s *Service) selectCandidates(ctx context.Context, need *ClearingNeed) ([]repository.Candidate, error) {
	candidates, err := s.repo.ListCoPrimary(ctx, need.State, need.MinSqft, need.MaxSqft, coPrimaryLimit)
	if err != nil {
		return nil, err
	}

	if len(candidates) < minCandidates && need.Lat != nil && need.Lng != nil {
		nearest, err := s.repo.ListNearest(ctx, *need.Lat, *need.Lng, knnFallbackLimit)
		if err != nil {
			return nil, err
		}
		seen := make(map[uuid.UUID]bool, len(candidates))
		for _, c := range candidates {
			seen[c.WarehouseID] = true
		}
		for _, c := range nearest {
			if !seen[c.WarehouseID] {
				candidates = append(candidates, c)
			}
		}
	}

	available := candidates[:0]
	for _, c := range candidates {
		held, err := s.holds.HasActiveEngagement(ctx, c.WarehouseID)
		if err != nil {
			return nil, err
		}
		if !held {
			available = append(available, c)
		}
	}

	return available, nil
}

func (s *Service) scoreCandidates(ctx context.Context, need *ClearingNeed, candidates []repository.Candidate) ([]scoredCandidate, error) {
	needInput := toNeedInput(need)
	scored := make([]scoredCandidate, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoringConcurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			wh, terms := toScorerInputs(&candidates[i])
			scored[i] = scoredCandidate{
				candidate: candidates[i],
				breakdown: domain.ComputeCompositeScore(needInput, wh, terms),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scored, nil
}

// rankScored orders best-first: composite descending, then distance
// ascending with unknown distances last, then warehouse ID for a stable,
// deterministic order.
func rankScored(scored []scoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.breakdown.CompositeScore != b.breakdown.CompositeScore {
			return a.breakdown.CompositeScore > b.breakdown.CompositeScore
		}
		ad, bd := a.breakdown.DistanceMiles, b.breakdown.DistanceMiles
		if ad != nil && bd != nil && *ad != *bd {
			return *ad < *bd
		}
		if (ad != nil) != (bd != nil) {
			return ad != nil
		}
		return a.candidate.WarehouseID.String() < b.candidate.WarehouseID.String()
	})
}

// applyBatchBudgetContext runs the list-level budget tagging over the ranked
// batch and copies the alternative flag back onto the breakdowns.
func applyBatchBudgetContext(scored []scoredCandidate, buyerMaxBudget *float64) {
	contexts := make([]*domain.BudgetContext, len(scored))
	for i := range scored {
		within := scored[i].breakdown.WithinBudget
		stretch := scored[i].breakdown.BudgetStretchPct
		contexts[i] = &domain.BudgetContext{
			SupplierRatePerSqft: scored[i].candidate.SupplierRatePerSqft,
			WithinBudget:        &within,
			BudgetStretchPct:    &stretch,
		}
	}

	domain.ApplyBudgetContext(contexts, buyerMaxBudget)

	for i := range scored {
		if contexts[i].WithinBudget != nil {
			scored[i].breakdown.WithinBudget = *contexts[i].WithinBudget
		}
		if contexts[i].BudgetStretchPct != nil {
			scored[i].breakdown.BudgetStretchPct = *contexts[i].BudgetStretchPct
		}
	}
	for i := range scored {
		if contexts[i].BudgetAlternativeAvailable {
			scored[i].budgetAlternativeAvailable = true
		}
	}
}

// ScoreMatchFeatures runs the full async feature evaluation for one match:
// load the match and its warehouse facts, ask the evaluator, and fold the
// result back into the composite. A nil evaluator makes this a no-op so the
// worker can run without a model configured.
func (s *Service) ScoreMatchFeatures(ctx context.Context, matchID uuid.UUID) error {
	if s.evaluator == nil {
		return nil
	}

	match, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match.FeatureScoredAt != nil {
		return nil
	}

	need, err := s.needs.GetNeedForClearing(ctx, match.NeedID)
	if err != nil {
		return err
	}

	facts, err := s.repo.GetWarehouseFacts(ctx, match.WarehouseID)
	if err != nil {
		return err
	}

	score, err := s.evaluator.EvaluateFeatures(ctx, FeatureFacts{
		Requirements:   need.Requirements,
		ActivityTier:   facts.ActivityTier,
		HasOfficeSpace: facts.HasOfficeSpace,
		HasSprinkler:   facts.HasSprinkler,
		DockDoors:      facts.DockDoors,
		DriveInDoors:   facts.DriveInDoors,
		ParkingSpaces:  facts.ParkingSpaces,
	})
	if err != nil {
		return fmt.Errorf("feature evaluation failed: %w", err)
	}

	return s.ApplyFeatureScore(ctx, matchID, score)
}

// ApplyFeatureScore injects the async feature evaluation result into a match
// and recomputes its composite with the canonical weights.
func (s *Service) ApplyFeatureScore(ctx context.Context, matchID uuid.UUID, featureScore int) error {
	match, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}

	breakdown := domain.ScoreBreakdown{
		LocationScore: match.LocationScore,
		SizeScore:     match.SizeScore,
		UseTypeScore:  match.UseTypeScore,
		FeatureScore:  match.FeatureScore,
		TimingScore:   match.TimingScore,
		BudgetScore:   match.BudgetScore,
	}
	recomputed := domain.RecomputeWithFeatureScore(breakdown, featureScore)

	if err := s.repo.UpdateFeatureScore(ctx, matchID, recomputed.FeatureScore, recomputed.CompositeScore); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.MatchRescored{
		BaseEvent:    events.NewBaseEvent(),
		MatchID:      matchID,
		NeedID:       match.NeedID,
		FeatureScore: recomputed.FeatureScore,
		Composite:    recomputed.CompositeScore,
	})

	return nil
}

// ListForNeed retrieves the persisted matches for a need, best first.
// Buyers only see matches for their own needs.
func (s *Service) ListForNeed(ctx context.Context, needID uuid.UUID, userID uuid.UUID, role string) ([]transport.MatchResponse, error) {
	matches, err := s.repo.ListForNeed(ctx, needID)
	if err != nil {
		return nil, err
	}
	if role == "buyer" && len(matches) > 0 && matches[0].BuyerID != userID {
		return nil, apperr.Forbidden("need does not belong to this buyer")
	}

	out := make([]transport.MatchResponse, 0, len(matches))
	for i := range matches {
		out = append(out, toResponse(&matches[i]))
	}
	return out, nil
}

// GetMatch retrieves a single match visible to the caller.
func (s *Service) GetMatch(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string) (*transport.MatchResponse, error) {
	match, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == "buyer" && match.BuyerID != userID {
		return nil, apperr.Forbidden("match does not belong to this buyer")
	}
	resp := toResponse(match)
	return &resp, nil
}

// GetParties exposes the match identifiers the engagements module needs to
// open an engagement.
func (s *Service) GetParties(ctx context.Context, matchID uuid.UUID) (*Parties, error) {
	match, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return &Parties{
		MatchID:     match.ID,
		NeedID:      match.NeedID,
		WarehouseID: match.WarehouseID,
		BuyerID:     match.BuyerID,
		SupplierID:  match.SupplierID,
	}, nil
}

func toNeedInput(need *ClearingNeed) domain.BuyerNeedInput {
	return domain.BuyerNeedInput{
		City:             need.City,
		State:            need.State,
		Lat:              need.Lat,
		Lng:              need.Lng,
		RadiusMiles:      need.RadiusMiles,
		MinSqft:          need.MinSqft,
		MaxSqft:          need.MaxSqft,
		UseType:          need.UseType,
		NeededFrom:       need.NeededFrom,
		DurationMonths:   need.DurationMonths,
		MaxBudgetPerSqft: need.MaxBudgetPerSqft,
		Requirements:     need.Requirements,
	}
}

func toScorerInputs(c *repository.Candidate) (domain.WarehouseInput, domain.ListingTermsInput) {
	wh := domain.WarehouseInput{
		Lat:            c.Lat,
		Lng:            c.Lng,
		City:           c.City,
		State:          c.State,
		ActivityTier:   c.ActivityTier,
		TotalSqft:      c.TotalSqft,
		HasOfficeSpace: c.HasOfficeSpace,
		HasSprinkler:   c.HasSprinkler,
		DockDoors:      c.DockDoors,
		DriveInDoors:   c.DriveInDoors,
		ParkingSpaces:  c.ParkingSpaces,
	}
	terms := domain.ListingTermsInput{
		MinSqft:             c.MinListableSqft,
		MaxSqft:             c.MaxListableSqft,
		SupplierRatePerSqft: c.SupplierRatePerSqft,
	}
	if c.AvailableFrom != nil {
		terms.AvailableFrom = c.AvailableFrom.Format(dateLayout)
	}
	return wh, terms
}

func toMatch(need *ClearingNeed, sc scoredCandidate, rank int, now time.Time) repository.Match {
	return repository.Match{
		ID:                         uuid.New(),
		NeedID:                     need.ID,
		WarehouseID:                sc.candidate.WarehouseID,
		BuyerID:                    need.BuyerID,
		SupplierID:                 sc.candidate.SupplierID,
		Rank:                       rank,
		CompositeScore:             sc.breakdown.CompositeScore,
		LocationScore:              sc.breakdown.LocationScore,
		SizeScore:                  sc.breakdown.SizeScore,
		UseTypeScore:               sc.breakdown.UseTypeScore,
		FeatureScore:               sc.breakdown.FeatureScore,
		TimingScore:                sc.breakdown.TimingScore,
		BudgetScore:                sc.breakdown.BudgetScore,
		DistanceMiles:              sc.breakdown.DistanceMiles,
		WithinBudget:               sc.breakdown.WithinBudget,
		BudgetStretchPct:           sc.breakdown.BudgetStretchPct,
		BudgetAlternativeAvailable: sc.budgetAlternativeAvailable,
		UseTypeCallouts:            sc.breakdown.UseTypeCallouts,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
}

func toResponse(m *repository.Match) transport.MatchResponse {
	return transport.MatchResponse{
		ID:                         m.ID,
		NeedID:                     m.NeedID,
		WarehouseID:                m.WarehouseID,
		Rank:                       m.Rank,
		CompositeScore:             m.CompositeScore,
		LocationScore:              m.LocationScore,
		SizeScore:                  m.SizeScore,
		UseTypeScore:               m.UseTypeScore,
		FeatureScore:               m.FeatureScore,
		TimingScore:                m.TimingScore,
		BudgetScore:                m.BudgetScore,
		DistanceMiles:              m.DistanceMiles,
		WithinBudget:               m.WithinBudget,
		BudgetStretchPct:           m.BudgetStretchPct,
		BudgetAlternativeAvailable: m.BudgetAlternativeAvailable,
		UseTypeCallouts:            m.UseTypeCallouts,
		FeatureScoredAt:            m.FeatureScoredAt,
		CreatedAt:                  m.CreatedAt,
	}
}
