package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceKmZeroForIdenticalPoints(t *testing.T) {
	points := [][2]float64{{0, 0}, {51.5, -0.12}, {-90, 180}, {89.9, -179.9}}

	for _, p := range points {
		d, err := DistanceKm(p[0], p[1], p[0], p[1])
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", p, err)
		}
		if d != 0 {
			t.Fatalf("expected zero distance for identical point %v, got %v", p, d)
		}
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	ab, err := DistanceKm(52.52, 13.405, 48.8566, 2.3522)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := DistanceKm(48.8566, 2.3522, 52.52, 13.405)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ab != ba {
		t.Fatalf("expected symmetric distances, got %v and %v", ab, ba)
	}
}

func TestDistanceKmKnownValue(t *testing.T) {
	// One degree of latitude along a meridian.
	d, err := DistanceKm(0, 0, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := math.Pi * EarthRadiusKm / 180
	if math.Abs(d-expected) > 1e-9 {
		t.Fatalf("expected %v km for one degree of latitude, got %v", expected, d)
	}
}

func TestDistanceKmAdditiveAlongMeridian(t *testing.T) {
	ab, err := DistanceKm(0, 10, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bc, err := DistanceKm(1, 10, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ac, err := DistanceKm(0, 10, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(ac-(ab+bc)) > 1e-9 {
		t.Fatalf("expected additivity on a meridian: %v + %v != %v", ab, bc, ac)
	}
}

func TestDistanceKmRejectsOutOfRangeInput(t *testing.T) {
	cases := [][4]float64{
		{91, 0, 0, 0},
		{0, 181, 0, 0},
		{0, 0, -90.5, 0},
		{0, 0, 0, -180.01},
		{math.NaN(), 0, 0, 0},
		{0, math.Inf(1), 0, 0},
	}

	for _, c := range cases {
		_, err := DistanceKm(c[0], c[1], c[2], c[3])
		if err == nil {
			t.Fatalf("expected error for input %v", c)
		}
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("expected ErrInvalidCoordinate for input %v, got %v", c, err)
		}
	}
}
