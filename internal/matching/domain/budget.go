package domain

import "wex_backend/internal/pricing"

// BudgetContext is the per-result budget tagging enriched by
// ApplyBudgetContext. WithinBudget and StretchPct are pointers so a result
// that already carries explicit tags (from the scoring pass) is left alone.
type BudgetContext struct {
	SupplierRatePerSqft *float64 `json:"supplierRatePerSqft,omitempty"`
	WithinBudget        *bool    `json:"withinBudget,omitempty"`
	BudgetStretchPct    *float64 `json:"budgetStretchPct,omitempty"`
	// BudgetAlternativeAvailable is a UI signal set on the first result when
	// the entire batch is over budget and alternatives should be surfaced.
	BudgetAlternativeAvailable bool `json:"budgetAlternativeAvailable,omitempty"`
}

// ApplyBudgetContext post-processes a ranked batch of match results. Results
// missing explicit budget tags get them derived from their supplier rate via
// the canonical pricing formula. The decision that no result fits is
// list-level: the whole batch is scanned before the first result is flagged.
func ApplyBudgetContext(results []*BudgetContext, buyerMaxBudget *float64) []*BudgetContext {
	if len(results) == 0 {
		return results
	}

	hasBudget := buyerMaxBudget != nil && *buyerMaxBudget > 0

	anyWithin := false
	for _, result := range results {
		if result == nil {
			continue
		}

		if result.WithinBudget == nil {
			within := true
			stretch := 0.0
			if hasBudget && result.SupplierRatePerSqft != nil && *result.SupplierRatePerSqft > 0 {
				buyerRate := pricing.DefaultBuyerRate(*result.SupplierRatePerSqft)
				if buyerRate > *buyerMaxBudget {
					within = false
					stretch = (buyerRate - *buyerMaxBudget) / *buyerMaxBudget * 100
				}
			}
			result.WithinBudget = &within
			result.BudgetStretchPct = &stretch
		}

		if result.WithinBudget != nil && *result.WithinBudget {
			anyWithin = true
		}
	}

	if hasBudget && !anyWithin {
		for _, result := range results {
			if result != nil {
				result.BudgetAlternativeAvailable = true
				break
			}
		}
	}

	return results
}
