package pricing

import (
	"math"
	"testing"
)

func TestDefaultBuyerRate(t *testing.T) {
	tests := []struct {
		name         string
		supplierRate float64
		want         float64
	}{
		{"typical rate rounds up to cent", 0.65, 0.83},
		{"whole dollar rate", 1.00, 1.28}, // 1.272 -> 1.28
		{"zero rate", 0, 0},
		{"negative rate", -0.50, 0},
		{"small rate", 0.01, 0.02}, // 0.01272 -> ceil to 0.02
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DefaultBuyerRate(tc.supplierRate)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("DefaultBuyerRate(%v) = %v, want %v", tc.supplierRate, got, tc.want)
			}
		})
	}
}

func TestDefaultBuyerRateNeverUnderCollects(t *testing.T) {
	for _, rate := range []float64{0.37, 0.55, 0.65, 0.78, 0.99, 1.23, 2.07} {
		raw := rate * MarginMultiplier * GuaranteeFeeMultiplier
		got := DefaultBuyerRate(rate)
		if got+1e-9 < raw {
			t.Fatalf("buyer rate %v under-collects against raw %v for supplier rate %v", got, raw, rate)
		}
	}
}
