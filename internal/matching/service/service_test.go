package service

import (
	"testing"

	"wex_backend/internal/matching/domain"
	"wex_backend/internal/matching/repository"

	"github.com/google/uuid"
)

func f64(v float64) *float64 { return &v }

func scoredWith(id string, composite float64, distance *float64) scoredCandidate {
	return scoredCandidate{
		candidate: repository.Candidate{WarehouseID: uuid.MustParse(id)},
		breakdown: domain.ScoreBreakdown{CompositeScore: composite, DistanceMiles: distance},
	}
}

func TestRankScoredOrdersByCompositeThenDistance(t *testing.T) {
	scored := []scoredCandidate{
		scoredWith("00000000-0000-0000-0000-000000000001", 60, f64(5)),
		scoredWith("00000000-0000-0000-0000-000000000002", 80, f64(30)),
		scoredWith("00000000-0000-0000-0000-000000000003", 80, f64(10)),
		scoredWith("00000000-0000-0000-0000-000000000004", 80, nil),
	}

	rankScored(scored)

	want := []string{
		"00000000-0000-0000-0000-000000000003", // 80, 10mi
		"00000000-0000-0000-0000-000000000002", // 80, 30mi
		"00000000-0000-0000-0000-000000000004", // 80, unknown distance last
		"00000000-0000-0000-0000-000000000001", // 60
	}
	for i, id := range want {
		if got := scored[i].candidate.WarehouseID.String(); got != id {
			t.Errorf("rank %d = %s, want %s", i, got, id)
		}
	}
}

func TestRankScoredTiesBreakOnWarehouseID(t *testing.T) {
	scored := []scoredCandidate{
		scoredWith("00000000-0000-0000-0000-00000000000b", 70, f64(12)),
		scoredWith("00000000-0000-0000-0000-00000000000a", 70, f64(12)),
	}

	rankScored(scored)

	if scored[0].candidate.WarehouseID.String() != "00000000-0000-0000-0000-00000000000a" {
		t.Error("equal score and distance should order by warehouse id")
	}
}

func TestApplyBatchBudgetContextFlagsFirstWhenAllOver(t *testing.T) {
	scored := []scoredCandidate{
		{
			candidate: repository.Candidate{WarehouseID: uuid.New(), SupplierRatePerSqft: f64(2.0)},
			breakdown: domain.ScoreBreakdown{CompositeScore: 80, WithinBudget: false, BudgetStretchPct: 50},
		},
		{
			candidate: repository.Candidate{WarehouseID: uuid.New(), SupplierRatePerSqft: f64(3.0)},
			breakdown: domain.ScoreBreakdown{CompositeScore: 70, WithinBudget: false, BudgetStretchPct: 120},
		},
	}

	applyBatchBudgetContext(scored, f64(1.0))

	if !scored[0].budgetAlternativeAvailable {
		t.Error("first result should carry the budget-alternative flag when the whole batch is over budget")
	}
	if scored[1].budgetAlternativeAvailable {
		t.Error("only the first result should carry the flag")
	}
}

func TestApplyBatchBudgetContextNoFlagWhenOneFits(t *testing.T) {
	scored := []scoredCandidate{
		{
			candidate: repository.Candidate{WarehouseID: uuid.New(), SupplierRatePerSqft: f64(2.0)},
			breakdown: domain.ScoreBreakdown{CompositeScore: 80, WithinBudget: false, BudgetStretchPct: 50},
		},
		{
			candidate: repository.Candidate{WarehouseID: uuid.New(), SupplierRatePerSqft: f64(0.5)},
			breakdown: domain.ScoreBreakdown{CompositeScore: 70, WithinBudget: true},
		},
	}

	applyBatchBudgetContext(scored, f64(1.0))

	for i := range scored {
		if scored[i].budgetAlternativeAvailable {
			t.Errorf("result %d flagged although an in-budget result exists", i)
		}
	}
}

func TestToScorerInputsFormatsAvailableFrom(t *testing.T) {
	c := repository.Candidate{WarehouseID: uuid.New()}
	_, terms := toScorerInputs(&c)
	if terms.AvailableFrom != "" {
		t.Errorf("nil available_from should map to empty string, got %q", terms.AvailableFrom)
	}
}
