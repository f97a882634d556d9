package geo

import (
	"math"
	"testing"
)

func TestMilesZeroDistance(t *testing.T) {
	d := Miles(33.7490, -84.3880, 33.7490, -84.3880)
	if d != 0 {
		t.Fatalf("expected 0 distance for identical points, got %f", d)
	}
}

func TestMilesKnownDistance(t *testing.T) {
	// Atlanta, GA to Marietta, GA is roughly 15 miles.
	d := Miles(33.7490, -84.3880, 33.9526, -84.5499)
	if d < 13 || d > 18 {
		t.Fatalf("expected roughly 15 miles, got %f", d)
	}
}

func TestMilesSymmetry(t *testing.T) {
	ab := Miles(40.7128, -74.0060, 34.0522, -118.2437)
	ba := Miles(34.0522, -118.2437, 40.7128, -74.0060)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
	}
	// NYC to LA is roughly 2,450 miles.
	if ab < 2400 || ab > 2500 {
		t.Fatalf("expected roughly 2450 miles, got %f", ab)
	}
}
