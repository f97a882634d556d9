// Package domain provides the deterministic match-scoring rules for the
// matching bounded context.
package domain

import (
	"fmt"
	"sort"
)

// Capability tags describe what a warehouse can physically support and
// what a buyer's operation requires. The two maps below are intentionally
// independent rather than symmetric: a cold-storage facility can serve a
// plain-storage buyer (superset), but a storage-only facility cannot serve
// a cold-storage buyer (capability gap).

// capabilityMap maps a warehouse activity tier to the capability tags it provides.
var capabilityMap = map[string]map[string]bool{
	"storage_only":     {"storage": true},
	"flex_space":       {"storage": true, "office": true},
	"cold_storage":     {"storage": true, "cold_chain": true, "food_grade": true},
	"distribution_hub": {"storage": true, "distribution": true, "parcel_shipping": true},
	"light_industrial": {"storage": true, "distribution": true, "heavy_power": true},
	"manufacturing":    {"storage": true, "distribution": true, "heavy_power": true, "ventilation": true},
}

// needMap maps a buyer's declared use type to the capability tags it requires.
// Entries list only the tags the use actually depends on, which is what keeps
// the matrix asymmetric.
var needMap = map[string]map[string]bool{
	"storage":               {"storage": true},
	"cold_storage":          {"cold_chain": true},
	"food_storage":          {"cold_chain": true, "food_grade": true},
	"distribution":          {"storage": true, "distribution": true},
	"ecommerce_fulfillment": {"storage": true, "distribution": true, "parcel_shipping": true},
	"light_manufacturing":   {"storage": true, "heavy_power": true},
	"office_plus_storage":   {"storage": true, "office": true},
}

// ComputeUseTypeScore grades how well a warehouse's activity tier covers a
// buyer's declared use type. Returns a 0-100 score and explanatory callouts.
// A warehouse exceeding the buyer's needs is never penalized.
func ComputeUseTypeScore(warehouseTier, buyerUseType string, hasOfficeSpace bool) (int, []string) {
	tierCaps := capabilityMap[warehouseTier]
	needs := needMap[buyerUseType]

	if len(tierCaps) == 0 || len(needs) == 0 {
		return 0, []string{"Unknown warehouse tier or buyer use type"}
	}

	caps := copySet(tierCaps)
	if hasOfficeSpace {
		caps["office"] = true
	}

	var overlap, missing, bonus []string
	for tag := range needs {
		if caps[tag] {
			overlap = append(overlap, tag)
		} else {
			missing = append(missing, tag)
		}
	}
	for tag := range caps {
		if !needs[tag] {
			bonus = append(bonus, tag)
		}
	}

	sort.Strings(overlap)
	sort.Strings(missing)
	sort.Strings(bonus)

	if len(overlap) == 0 {
		return 0, []string{"Incompatible use type"}
	}

	if len(missing) == 0 {
		callouts := make([]string, 0, len(bonus))
		for _, tag := range bonus {
			callouts = append(callouts, fmt.Sprintf("Warehouse also supports %s", tag))
		}
		return 100, callouts
	}

	callouts := make([]string, 0, len(missing))
	for _, tag := range missing {
		callouts = append(callouts, fmt.Sprintf("Warehouse cannot provide %s", tag))
	}

	if len(overlap) >= len(missing) {
		return 60, callouts
	}
	return 30, callouts
}

func copySet(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src)+1)
	for tag := range src {
		dst[tag] = true
	}
	return dst
}
