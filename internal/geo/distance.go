// Package geo computes great-circle distances between founder locations.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371

// ErrInvalidCoordinate is returned when a latitude or longitude is not a
// finite value inside its valid degree range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// DistanceKm returns the haversine distance in kilometers between two points
// given in decimal degrees. Latitudes must lie in [-90, 90] and longitudes in
// [-180, 180]; anything else fails with ErrInvalidCoordinate.
func DistanceKm(lat1, lon1, lat2, lon2 float64) (float64, error) {
	for _, c := range []struct {
		name  string
		value float64
		limit float64
	}{
		{"latitude", lat1, 90},
		{"longitude", lon1, 180},
		{"latitude", lat2, 90},
		{"longitude", lon2, 180},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || math.Abs(c.value) > c.limit {
			return 0, fmt.Errorf("%w: %s %v is out of range [-%v, %v]", ErrInvalidCoordinate, c.name, c.value, c.limit, c.limit)
		}
	}

	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c, nil
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
