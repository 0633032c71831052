package geo

import (
	"math"
	"testing"
)

func TestDistanceMilesZeroForSamePoint(t *testing.T) {
	if d := DistanceMiles(30.2672, -97.7431, 30.2672, -97.7431); d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestDistanceMilesSymmetric(t *testing.T) {
	a := DistanceMiles(30.2672, -97.7431, 29.7604, -95.3698)
	b := DistanceMiles(29.7604, -95.3698, 30.2672, -97.7431)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestDistanceMilesKnownPair(t *testing.T) {
	// Austin to Houston is roughly 146 miles great-circle.
	d := DistanceMiles(30.2672, -97.7431, 29.7604, -95.3698)
	if d < 140 || d > 152 {
		t.Fatalf("unexpected Austin-Houston distance %f", d)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.235, 1.24},
		{0, 0},
		{9.999, 10},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}
