package domain

import (
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightLocation + WeightSize + WeightUseType + WeightFeature + WeightTiming + WeightBudget
	if math.Abs(sum-1.0) > 1e-12 {
		t.Fatalf("dimension weights sum to %v, want 1.0", sum)
	}
}

func TestCompositeIsWeightedSum(t *testing.T) {
	need := BuyerNeedInput{
		City:             "Atlanta",
		Lat:              fptr(33.7490),
		Lng:              fptr(-84.3880),
		RadiusMiles:      25,
		MinSqft:          fptr(4000),
		MaxSqft:          fptr(6000),
		UseType:          "storage",
		NeededFrom:       "NOW",
		MaxBudgetPerSqft: fptr(1.00),
	}
	wh := WarehouseInput{
		Lat:          fptr(33.7490),
		Lng:          fptr(-84.3880),
		City:         "Atlanta",
		ActivityTier: "storage_only",
	}
	terms := ListingTermsInput{
		MinSqft:             fptr(2000),
		MaxSqft:             fptr(10000),
		SupplierRatePerSqft: fptr(0.65),
	}

	b := ComputeCompositeScore(need, wh, terms)

	want := b.LocationScore*WeightLocation + b.SizeScore*WeightSize +
		b.UseTypeScore*WeightUseType + b.FeatureScore*WeightFeature +
		b.TimingScore*WeightTiming + b.BudgetScore*WeightBudget
	if math.Abs(b.CompositeScore-want) > 1e-9 {
		t.Fatalf("composite %v is not the weighted sum %v", b.CompositeScore, want)
	}
}

func TestAllSubScoresBounded(t *testing.T) {
	cases := []struct {
		name  string
		need  BuyerNeedInput
		wh    WarehouseInput
		terms ListingTermsInput
	}{
		{"empty inputs", BuyerNeedInput{}, WarehouseInput{}, ListingTermsInput{}},
		{
			"far candidate tiny space huge budget gap",
			BuyerNeedInput{
				Lat: fptr(33.7), Lng: fptr(-84.4), RadiusMiles: 5,
				MinSqft: fptr(50000), MaxSqft: fptr(60000),
				UseType: "cold_storage", NeededFrom: "2026-01-01",
				MaxBudgetPerSqft: fptr(0.10),
			},
			WarehouseInput{Lat: fptr(40.7), Lng: fptr(-74.0), ActivityTier: "storage_only"},
			ListingTermsInput{MinSqft: fptr(500), MaxSqft: fptr(800), SupplierRatePerSqft: fptr(5.00), AvailableFrom: "2026-12-01"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := ComputeCompositeScore(tc.need, tc.wh, tc.terms)
			for name, score := range map[string]float64{
				"location": b.LocationScore,
				"size":     b.SizeScore,
				"use_type": b.UseTypeScore,
				"feature":  b.FeatureScore,
				"timing":   b.TimingScore,
				"budget":   b.BudgetScore,
			} {
				if score < 0 || score > 100 {
					t.Errorf("%s score %v out of [0,100]", name, score)
				}
			}
		})
	}
}

func TestLocationScoreIdenticalCoordinates(t *testing.T) {
	need := BuyerNeedInput{City: "Dallas", Lat: fptr(32.7767), Lng: fptr(-96.7970), RadiusMiles: 25}
	wh := WarehouseInput{City: "Dallas", Lat: fptr(32.7767), Lng: fptr(-96.7970), ActivityTier: "storage_only"}

	b := ComputeCompositeScore(need, wh, ListingTermsInput{})
	if b.LocationScore != 100 {
		t.Fatalf("expected location 100 for identical coordinates, got %v", b.LocationScore)
	}
	if b.DistanceMiles == nil || *b.DistanceMiles != 0 {
		t.Fatalf("expected recorded distance 0, got %v", b.DistanceMiles)
	}
}

func TestLocationScoreMissingCoordinatesIsNeutral(t *testing.T) {
	b := ComputeCompositeScore(BuyerNeedInput{City: "Dallas"}, WarehouseInput{City: "Dallas"}, ListingTermsInput{})
	if b.LocationScore != 50 {
		t.Fatalf("expected neutral 50 without coordinates, got %v", b.LocationScore)
	}
	if b.DistanceMiles != nil {
		t.Fatalf("expected no recorded distance, got %v", *b.DistanceMiles)
	}
}

func TestLocationScoreOutOfRadiusDecaysAgainstCap(t *testing.T) {
	// Roughly 40 miles apart with a 10 mile radius: outside the radius, so
	// the 100 mile cap applies and the score stays well above zero.
	need := BuyerNeedInput{Lat: fptr(33.7490), Lng: fptr(-84.3880), RadiusMiles: 10}
	wh := WarehouseInput{Lat: fptr(34.2979), Lng: fptr(-83.8241)}

	b := ComputeCompositeScore(need, wh, ListingTermsInput{})
	if b.LocationScore <= 0 || b.LocationScore >= 100 {
		t.Fatalf("expected graceful out-of-radius decay, got %v", b.LocationScore)
	}
}

func TestSizeScoreFullCreditBand(t *testing.T) {
	need := BuyerNeedInput{MinSqft: fptr(4000), MaxSqft: fptr(6000)} // target 5000
	wh := WarehouseInput{}
	terms := ListingTermsInput{MinSqft: fptr(1000), MaxSqft: fptr(20000)}

	b := ComputeCompositeScore(need, wh, terms)
	if b.SizeScore != 100 {
		t.Fatalf("expected size 100 when target fits the listable range, got %v", b.SizeScore)
	}
}

func TestSizeScoreUndersizedHarsherThanOversized(t *testing.T) {
	need := BuyerNeedInput{MinSqft: fptr(10000), MaxSqft: fptr(10000)}

	under := ComputeCompositeScore(need, WarehouseInput{}, ListingTermsInput{MinSqft: fptr(1000), MaxSqft: fptr(6000)})
	over := ComputeCompositeScore(need, WarehouseInput{}, ListingTermsInput{MinSqft: fptr(14000), MaxSqft: fptr(30000)})

	// Both 40% off target; undersized must score lower.
	if under.SizeScore >= over.SizeScore {
		t.Fatalf("undersized %v should score below oversized %v", under.SizeScore, over.SizeScore)
	}
}

func TestSizeScoreNoBuyerTargetIsNeutral(t *testing.T) {
	b := ComputeCompositeScore(BuyerNeedInput{}, WarehouseInput{TotalSqft: fptr(10000)}, ListingTermsInput{})
	if b.SizeScore != 50 {
		t.Fatalf("expected neutral 50 without buyer target, got %v", b.SizeScore)
	}
}

func TestTimingScoreTiers(t *testing.T) {
	tests := []struct {
		neededFrom    string
		availableFrom string
		want          float64
	}{
		{"2026-03-01", "2026-03-01", 100}, // gap 0
		{"2026-03-01", "2026-02-01", 100}, // warehouse early
		{"2026-03-01", "2026-03-20", 70},  // 19 days late
		{"2026-01-01", "2026-02-15", 40},  // 45 days late
		{"2026-01-01", "2026-04-01", 10},  // 90 days late
		{"NOW", "2026-03-01", 100},        // sentinel: no constraint
		{"ASAP", "2026-03-01", 100},
		{"", "2026-03-01", 100},
		{"2026-03-01", "not a date", 100},
	}

	for _, tc := range tests {
		if got := scoreTiming(tc.neededFrom, tc.availableFrom); got != tc.want {
			t.Errorf("scoreTiming(%q, %q) = %v, want %v", tc.neededFrom, tc.availableFrom, got, tc.want)
		}
	}
}

func TestBudgetScoreOverBudgetStretch(t *testing.T) {
	// supplier 0.65 -> buyer rate 0.83 vs max 0.80: over budget by 3.75%.
	score, within, stretch := scoreBudget(fptr(0.80), fptr(0.65))
	if within {
		t.Fatal("expected within_budget=false")
	}
	if math.Abs(stretch-3.75) > 0.01 {
		t.Fatalf("expected stretch around 3.75%%, got %v", stretch)
	}
	if score <= 0 || score >= 100 {
		t.Fatalf("expected partial budget score, got %v", score)
	}
}

func TestBudgetScoreWithinBudget(t *testing.T) {
	score, within, stretch := scoreBudget(fptr(1.00), fptr(0.65))
	if !within || score != 100 || stretch != 0 {
		t.Fatalf("expected full credit within budget, got score=%v within=%v stretch=%v", score, within, stretch)
	}
}

func TestBudgetScoreMissingDataIsPermissive(t *testing.T) {
	score, within, _ := scoreBudget(nil, fptr(0.65))
	if score != 50 || !within {
		t.Fatalf("expected neutral permissive default, got score=%v within=%v", score, within)
	}
	score, within, _ = scoreBudget(fptr(1.00), nil)
	if score != 50 || !within {
		t.Fatalf("expected neutral permissive default, got score=%v within=%v", score, within)
	}
}

func TestBudgetScoreWorthlessPastThirtyPercent(t *testing.T) {
	// supplier 2.00 -> buyer rate 2.55 vs max 1.00: far past the decay limit.
	score, within, _ := scoreBudget(fptr(1.00), fptr(2.00))
	if within || score != 0 {
		t.Fatalf("expected score 0 far over budget, got score=%v within=%v", score, within)
	}
}

func TestRecomputeWithFeatureScoreIdempotent(t *testing.T) {
	need := BuyerNeedInput{MinSqft: fptr(5000), MaxSqft: fptr(5000), UseType: "storage"}
	wh := WarehouseInput{ActivityTier: "storage_only"}
	terms := ListingTermsInput{MinSqft: fptr(4000), MaxSqft: fptr(6000)}

	base := ComputeCompositeScore(need, wh, terms)

	once := RecomputeWithFeatureScore(base, 80)
	twice := RecomputeWithFeatureScore(once, 50)

	direct := base
	direct.FeatureScore = 50
	want := weightedComposite(direct)

	if math.Abs(twice.CompositeScore-want) > 1e-9 {
		t.Fatalf("recompute chain gave %v, direct weighted sum gives %v", twice.CompositeScore, want)
	}
	if base.FeatureScore != featurePlaceholderScore {
		t.Fatal("input breakdown was mutated by recompute")
	}
}

func TestRecomputeClampsFeatureScore(t *testing.T) {
	base := ComputeCompositeScore(BuyerNeedInput{}, WarehouseInput{}, ListingTermsInput{})
	if got := RecomputeWithFeatureScore(base, 180).FeatureScore; got != 100 {
		t.Fatalf("expected feature clamped to 100, got %v", got)
	}
	if got := RecomputeWithFeatureScore(base, -5).FeatureScore; got != 0 {
		t.Fatalf("expected feature clamped to 0, got %v", got)
	}
}
