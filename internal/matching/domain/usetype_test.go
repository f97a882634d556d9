package domain

import (
	"strings"
	"testing"
)

func TestComputeUseTypeScoreSupersetIsFullCredit(t *testing.T) {
	// A cold-storage facility can serve a plain-storage buyer.
	score, _ := ComputeUseTypeScore("cold_storage", "storage", false)
	if score != 100 {
		t.Fatalf("cold_storage tier vs storage need = %d, want 100", score)
	}
}

func TestComputeUseTypeScoreCapabilityGapIsIncompatible(t *testing.T) {
	// A storage-only facility cannot serve a cold-storage buyer.
	score, callouts := ComputeUseTypeScore("storage_only", "cold_storage", false)
	if score != 0 {
		t.Fatalf("storage_only tier vs cold_storage need = %d, want 0", score)
	}
	if len(callouts) != 1 || callouts[0] != "Incompatible use type" {
		t.Fatalf("unexpected callouts: %v", callouts)
	}
}

func TestComputeUseTypeScoreIdenticalDomain(t *testing.T) {
	score, _ := ComputeUseTypeScore("cold_storage", "cold_storage", false)
	if score != 100 {
		t.Fatalf("identical tier/need = %d, want 100", score)
	}
}

func TestComputeUseTypeScoreUnknownInputs(t *testing.T) {
	for _, tc := range [][2]string{
		{"mystery_tier", "storage"},
		{"storage_only", "mystery_use"},
		{"", ""},
	} {
		score, callouts := ComputeUseTypeScore(tc[0], tc[1], false)
		if score != 0 {
			t.Errorf("ComputeUseTypeScore(%q, %q) = %d, want 0", tc[0], tc[1], score)
		}
		if len(callouts) != 1 || !strings.Contains(callouts[0], "Unknown") {
			t.Errorf("expected unknown callout for (%q, %q), got %v", tc[0], tc[1], callouts)
		}
	}
}

func TestComputeUseTypeScoreOfficeFlagUnlocksCoverage(t *testing.T) {
	// storage_only lacks office; the office flag closes the gap.
	without, _ := ComputeUseTypeScore("storage_only", "office_plus_storage", false)
	with, _ := ComputeUseTypeScore("storage_only", "office_plus_storage", true)

	if without != 60 {
		t.Fatalf("without office flag = %d, want 60 (majority fit)", without)
	}
	if with != 100 {
		t.Fatalf("with office flag = %d, want 100", with)
	}
}

func TestComputeUseTypeScorePartialFit(t *testing.T) {
	// flex_space covers storage but misses distribution and parcel_shipping:
	// one overlap against two missing is a minority fit.
	score, callouts := ComputeUseTypeScore("flex_space", "ecommerce_fulfillment", false)
	if score != 30 {
		t.Fatalf("flex_space vs ecommerce_fulfillment = %d, want 30", score)
	}
	if len(callouts) != 2 {
		t.Fatalf("expected two missing-capability callouts, got %v", callouts)
	}
}
