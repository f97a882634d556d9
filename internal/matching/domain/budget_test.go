package domain

import (
	"math"
	"testing"
)

func bptr(v bool) *bool { return &v }

func TestApplyBudgetContextDerivesMissingTags(t *testing.T) {
	results := []*BudgetContext{
		{SupplierRatePerSqft: fptr(0.65)}, // buyer rate 0.83, within 1.00
		{SupplierRatePerSqft: fptr(2.00)}, // buyer rate 2.55, over 1.00
	}

	ApplyBudgetContext(results, fptr(1.00))

	if results[0].WithinBudget == nil || !*results[0].WithinBudget {
		t.Fatal("expected first result within budget")
	}
	if results[1].WithinBudget == nil || *results[1].WithinBudget {
		t.Fatal("expected second result over budget")
	}
	if results[1].BudgetStretchPct == nil || *results[1].BudgetStretchPct <= 0 {
		t.Fatalf("expected positive stretch pct, got %v", results[1].BudgetStretchPct)
	}
	if results[0].BudgetAlternativeAvailable || results[1].BudgetAlternativeAvailable {
		t.Fatal("no alternative flag expected when a result fits")
	}
}

func TestApplyBudgetContextPreservesExplicitTags(t *testing.T) {
	stretch := 12.5
	results := []*BudgetContext{
		{SupplierRatePerSqft: fptr(0.65), WithinBudget: bptr(false), BudgetStretchPct: &stretch},
	}

	ApplyBudgetContext(results, fptr(10.00))

	if *results[0].WithinBudget {
		t.Fatal("explicit within_budget tag was overwritten")
	}
	if math.Abs(*results[0].BudgetStretchPct-12.5) > 1e-9 {
		t.Fatalf("explicit stretch pct was overwritten: %v", *results[0].BudgetStretchPct)
	}
}

func TestApplyBudgetContextFlagsFirstWhenAllOverBudget(t *testing.T) {
	results := []*BudgetContext{
		{SupplierRatePerSqft: fptr(2.00)},
		{SupplierRatePerSqft: fptr(3.00)},
	}

	ApplyBudgetContext(results, fptr(0.50))

	if !results[0].BudgetAlternativeAvailable {
		t.Fatal("expected first result flagged when whole batch is over budget")
	}
	if results[1].BudgetAlternativeAvailable {
		t.Fatal("only the first result should carry the flag")
	}
}

func TestApplyBudgetContextNoBudgetIsPermissive(t *testing.T) {
	results := []*BudgetContext{{SupplierRatePerSqft: fptr(9.00)}}

	ApplyBudgetContext(results, nil)

	if results[0].WithinBudget == nil || !*results[0].WithinBudget {
		t.Fatal("expected within_budget=true when buyer has no budget ceiling")
	}
	if results[0].BudgetAlternativeAvailable {
		t.Fatal("no alternative flag without a budget ceiling")
	}
}
