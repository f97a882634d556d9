package domain

import (
	"math"
	"strings"
	"time"

	"wex_backend/internal/pricing"
	"wex_backend/platform/geo"
)

// Fixed dimension weights. These must sum to exactly 1.0 (covered by a test).
const (
	WeightLocation = 0.25
	WeightSize     = 0.20
	WeightUseType  = 0.20
	WeightFeature  = 0.15
	WeightTiming   = 0.10
	WeightBudget   = 0.10

	// neutralScore is used whenever a dimension cannot be computed from the
	// available data. Missing data degrades to neutral, never to a penalty;
	// excluding candidates outright is the clearing engine's pre-filter job.
	neutralScore = 50.0

	// featurePlaceholderScore stands in for the feature dimension until the
	// LLM evaluation round trip replaces it via RecomputeWithFeatureScore.
	featurePlaceholderScore = 50.0

	// outOfRadiusCapMiles is the denominator used for candidates found beyond
	// the buyer's stated radius (KNN fallback), producing a graceful decay
	// instead of a hard cutoff.
	outOfRadiusCapMiles = 100.0

	// defaultRadiusMiles applies when a buyer need carries no usable radius.
	defaultRadiusMiles = 50.0

	// cityMatchBonus rewards an exact (case-insensitive) city match.
	cityMatchBonus = 10.0

	// budgetDecaySlope makes a match worthless once roughly 30% over budget.
	budgetDecaySlope = 3.33
)

// BuyerNeedInput is the scorer's read-only view of a buyer need.
type BuyerNeedInput struct {
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

// WarehouseInput is the scorer's read-only view of a warehouse.
type WarehouseInput struct {
	Lat            *float64
	Lng            *float64
	City           string
	State          string
	ActivityTier   string
	TotalSqft      *float64
	HasOfficeSpace bool
	HasSprinkler   bool
	DockDoors      int
	DriveInDoors   int
	ParkingSpaces  int
}

// ListingTermsInput is the scorer's read-only view of supplier-declared terms.
type ListingTermsInput struct {
	MinSqft             *float64
	MaxSqft             *float64
	SupplierRatePerSqft *float64
	AvailableFrom       string
}

// ScoreBreakdown is the scorer's output: the weighted composite plus every
// dimension sub-score and the budget context derived along the way.
type ScoreBreakdown struct {
	CompositeScore   float64  `json:"compositeScore"`
	LocationScore    float64  `json:"locationScore"`
	SizeScore        float64  `json:"sizeScore"`
	UseTypeScore     float64  `json:"useTypeScore"`
	FeatureScore     float64  `json:"featureScore"`
	TimingScore      float64  `json:"timingScore"`
	BudgetScore      float64  `json:"budgetScore"`
	DistanceMiles    *float64 `json:"distanceMiles,omitempty"`
	WithinBudget     bool     `json:"withinBudget"`
	BudgetStretchPct float64  `json:"budgetStretchPct"`
	UseTypeCallouts  []string `json:"useTypeCallouts,omitempty"`
}

// ComputeCompositeScore runs the deterministic scoring pass over a
// (buyer need, warehouse, listing terms) triple. It never fails: missing
// data degrades to neutral scores or permissive defaults.
func ComputeCompositeScore(need BuyerNeedInput, wh WarehouseInput, terms ListingTermsInput) ScoreBreakdown {
	locationScore, distance := scoreLocation(need, wh)
	sizeScore := scoreSize(need, wh, terms)
	useTypeScore, callouts := ComputeUseTypeScore(wh.ActivityTier, need.UseType, wh.HasOfficeSpace)
	timingScore := scoreTiming(need.NeededFrom, terms.AvailableFrom)
	budgetScore, withinBudget, stretchPct := scoreBudget(need.MaxBudgetPerSqft, terms.SupplierRatePerSqft)

	breakdown := ScoreBreakdown{
		LocationScore:    locationScore,
		SizeScore:        sizeScore,
		UseTypeScore:     float64(useTypeScore),
		FeatureScore:     featurePlaceholderScore,
		TimingScore:      timingScore,
		BudgetScore:      budgetScore,
		DistanceMiles:    distance,
		WithinBudget:     withinBudget,
		BudgetStretchPct: stretchPct,
		UseTypeCallouts:  callouts,
	}
	breakdown.CompositeScore = weightedComposite(breakdown)
	return breakdown
}

// RecomputeWithFeatureScore replaces the feature placeholder with the
// LLM-derived score and recomputes the composite with the same weights.
// Returns a new breakdown; the input is never mutated, so re-scoring is
// idempotent and safe to repeat.
func RecomputeWithFeatureScore(breakdown ScoreBreakdown, featureScore int) ScoreBreakdown {
	result := breakdown
	result.FeatureScore = clampScore(float64(featureScore))
	result.CompositeScore = weightedComposite(result)
	return result
}

func weightedComposite(b ScoreBreakdown) float64 {
	return b.LocationScore*WeightLocation +
		b.SizeScore*WeightSize +
		b.UseTypeScore*WeightUseType +
		b.FeatureScore*WeightFeature +
		b.TimingScore*WeightTiming +
		b.BudgetScore*WeightBudget
}

// scoreLocation grades proximity. Candidates inside the buyer's radius decay
// against the radius; candidates beyond it decay against the out-of-radius
// cap so KNN-fallback results degrade gracefully instead of scoring zero.
func scoreLocation(need BuyerNeedInput, wh WarehouseInput) (float64, *float64) {
	if need.Lat == nil || need.Lng == nil || wh.Lat == nil || wh.Lng == nil {
		return neutralScore, nil
	}

	distance := geo.Miles(*need.Lat, *need.Lng, *wh.Lat, *wh.Lng)

	radius := need.RadiusMiles
	if radius <= 0 {
		radius = defaultRadiusMiles
	}

	denominator := radius
	if distance > radius {
		denominator = outOfRadiusCapMiles
	}

	score := math.Max(0, 100*(1-distance/denominator))

	if wh.City != "" && strings.EqualFold(wh.City, need.City) {
		score = math.Min(100, score+cityMatchBonus)
	}

	return score, &distance
}

// scoreSize grades how closely the warehouse's listable range can cover the
// buyer's target footprint. Oversized space is penalized more gently than
// undersized: stretching into a too-small space is the worse failure mode.
func scoreSize(need BuyerNeedInput, wh WarehouseInput, terms ListingTermsInput) float64 {
	target := buyerTargetSqft(need)
	if target <= 0 {
		return neutralScore
	}

	minSqft, maxSqft := listableRange(wh, terms)
	if minSqft <= 0 && maxSqft <= 0 {
		return neutralScore
	}

	bestFit := target
	if minSqft > 0 && bestFit < minSqft {
		bestFit = minSqft
	}
	if maxSqft > 0 && bestFit > maxSqft {
		bestFit = maxSqft
	}

	ratio := bestFit / target
	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return 100
	case ratio < 0.8:
		return clampScore(100 - (0.8-ratio)*250)
	default:
		return clampScore(100 - (ratio-1.2)*100)
	}
}

func buyerTargetSqft(need BuyerNeedInput) float64 {
	switch {
	case need.MinSqft != nil && need.MaxSqft != nil && *need.MinSqft != *need.MaxSqft:
		return (*need.MinSqft + *need.MaxSqft) / 2
	case need.MinSqft != nil:
		return *need.MinSqft
	case need.MaxSqft != nil:
		return *need.MaxSqft
	default:
		return 0
	}
}

func listableRange(wh WarehouseInput, terms ListingTermsInput) (float64, float64) {
	var minSqft, maxSqft float64
	if terms.MinSqft != nil {
		minSqft = *terms.MinSqft
	}
	if terms.MaxSqft != nil {
		maxSqft = *terms.MaxSqft
	}
	if minSqft <= 0 && maxSqft <= 0 && wh.TotalSqft != nil {
		// No listing bounds declared: the whole building is the only option.
		return *wh.TotalSqft, *wh.TotalSqft
	}
	return minSqft, maxSqft
}

// timingDateLayouts are the accepted date formats for needed_from/available_from.
var timingDateLayouts = []string{"2006-01-02", "01/02/2006", "2006-01-02T15:04:05Z07:00"}

// scoreTiming grades availability lateness in the discrete tiers a human
// broker reasons in. Absent or unparseable dates mean no timing conflict.
func scoreTiming(neededFrom, availableFrom string) float64 {
	needed := parseFlexibleDate(neededFrom)
	available := parseFlexibleDate(availableFrom)
	if needed == nil || available == nil {
		return 100
	}

	gapDays := int(available.Sub(*needed).Hours() / 24)
	switch {
	case gapDays <= 0:
		return 100
	case gapDays <= 30:
		return 70
	case gapDays <= 60:
		return 40
	default:
		return 10
	}
}

// parseFlexibleDate returns nil for sentinel values ("NOW", "ASAP", empty)
// and for anything unparseable, meaning "no timing constraint".
func parseFlexibleDate(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	upper := strings.ToUpper(trimmed)
	if upper == "NOW" || upper == "ASAP" {
		return nil
	}
	for _, layout := range timingDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed
		}
	}
	return nil
}

// scoreBudget grades the canonical buyer rate against the buyer's stated
// ceiling. Absence of a budget constraint is not a penalty.
func scoreBudget(maxBudget, supplierRate *float64) (score float64, withinBudget bool, stretchPct float64) {
	if maxBudget == nil || *maxBudget <= 0 || supplierRate == nil || *supplierRate <= 0 {
		return neutralScore, true, 0
	}

	buyerRate := pricing.DefaultBuyerRate(*supplierRate)
	if buyerRate <= *maxBudget {
		return 100, true, 0
	}

	percentOver := (buyerRate - *maxBudget) / *maxBudget * 100
	return math.Max(0, 100-percentOver*budgetDecaySlope), false, percentOver
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
