// Package pricing provides the canonical buyer-rate formula shared by
// match scoring and deal settlement. It must have exactly one definition
// so match-time and settlement-time pricing can never drift.
package pricing

import "math"

const (
	// MarginMultiplier is the marketplace margin applied on top of the supplier rate.
	MarginMultiplier = 1.20
	// GuaranteeFeeMultiplier covers the payment-guarantee insurance program.
	GuaranteeFeeMultiplier = 1.06
)

// DefaultBuyerRate converts a supplier's per-sqft rate into the rate quoted
// to buyers. The result is rounded UP to the cent: the platform must never
// under-collect. Returns 0 for missing or non-positive supplier rates.
func DefaultBuyerRate(supplierRate float64) float64 {
	if supplierRate <= 0 {
		return 0.0
	}
	return math.Ceil(supplierRate*MarginMultiplier*GuaranteeFeeMultiplier*100) / 100
}
