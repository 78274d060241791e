package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

// metersPerDegreeLat at the earth radius used by Haversine.
const metersPerDegreeLat = EarthRadiusMeters * 3.14159265358979 / 180.0

func pointAt(lat, lon, accuracy float64) models.GpsPoint {
	return models.GpsPoint{Latitude: lat, Longitude: lon, AccuracyMeters: accuracy}
}

// offsetLat returns a latitude displaced by the given number of meters.
func offsetLat(lat, meters float64) float64 {
	return lat + meters/metersPerDegreeLat
}

func TestHaversine(t *testing.T) {
	// Identical points
	assert.Equal(t, 0.0, Haversine(47.0, 8.0, 47.0, 8.0))

	// One degree of latitude is ~111.2 km
	d := Haversine(47.0, 8.0, 48.0, 8.0)
	assert.InDelta(t, 111195, d, 100)

	// Symmetric
	assert.InDelta(t, d, Haversine(48.0, 8.0, 47.0, 8.0), 1e-6)
}

func TestAccuracyAdjustedDistance(t *testing.T) {
	const lat, lon = 47.0, 8.0

	// The concrete split-rule scenarios: 286 m away at 8 m accuracy crosses
	// the 50 m coherence radius, 15 m at 13 m does not, and a 315 m fix
	// with 377 m uncertainty is floored to zero.
	p := pointAt(offsetLat(lat, 286), lon, 8)
	assert.InDelta(t, 278, AccuracyAdjustedDistance(lat, lon, p), 1.0)

	q := pointAt(offsetLat(lat, 15), lon, 13)
	assert.InDelta(t, 2, AccuracyAdjustedDistance(lat, lon, q), 1.0)

	r := pointAt(offsetLat(lat, 315), lon, 377)
	assert.Equal(t, 0.0, AccuracyAdjustedDistance(lat, lon, r))
}

func TestAccuracyAdjustedDistanceMonotonic(t *testing.T) {
	const lat, lon = 47.0, 8.0

	// Non-decreasing in raw distance for fixed accuracy.
	prev := -1.0
	for _, meters := range []float64{0, 10, 25, 50, 100, 500} {
		d := AccuracyAdjustedDistance(lat, lon, pointAt(offsetLat(lat, meters), lon, 20))
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}

	// Non-increasing in accuracy for fixed raw distance.
	prev = 1e9
	for _, acc := range []float64{0, 10, 50, 100, 400} {
		d := AccuracyAdjustedDistance(lat, lon, pointAt(offsetLat(lat, 120), lon, acc))
		assert.LessOrEqual(t, d, prev)
		prev = d
	}

	// Exactly zero whenever accuracy covers the raw distance.
	d := AccuracyAdjustedDistance(lat, lon, pointAt(offsetLat(lat, 40), lon, 40.5))
	assert.Equal(t, 0.0, d)
}

func TestPathDistance(t *testing.T) {
	points := []models.GpsPoint{
		pointAt(47.0, 8.0, 0),
		pointAt(offsetLat(47.0, 100), 8.0, 0),
		pointAt(offsetLat(47.0, 250), 8.0, 0),
	}
	assert.InDelta(t, 250, PathDistance(points), 1.0)
	assert.Equal(t, 0.0, PathDistance(points[:1]))
}

func TestCentroidAccumulator(t *testing.T) {
	var acc CentroidAccumulator
	lat0, lon0 := acc.Centroid()
	require.Equal(t, 0, acc.Count())
	require.Equal(t, 0.0, lat0)
	require.Equal(t, 0.0, lon0)

	// Equal accuracy: plain average.
	acc.Add(47.0, 8.0, 10)
	acc.Add(47.0002, 8.0, 10)
	lat, lon := acc.Centroid()
	assert.InDelta(t, 47.0001, lat, 1e-9)
	assert.Equal(t, 8.0, lon)

	// A precise fix pulls the centroid harder than a coarse one.
	var weighted CentroidAccumulator
	weighted.Add(47.0, 8.0, 1)
	weighted.Add(47.001, 8.0, 100)
	lat, _ = weighted.Centroid()
	assert.Less(t, lat-47.0, 47.001-lat)
}

func TestCentroidOfMatchesIncremental(t *testing.T) {
	points := []models.GpsPoint{
		{Latitude: 47.0, Longitude: 8.0, AccuracyMeters: 5},
		{Latitude: 47.0001, Longitude: 8.0002, AccuracyMeters: 12},
		{Latitude: 46.9999, Longitude: 7.9999, AccuracyMeters: 33},
	}

	var acc CentroidAccumulator
	for _, p := range points {
		acc.Add(p.Latitude, p.Longitude, p.AccuracyMeters)
	}
	incLat, incLon := acc.Centroid()
	pureLat, pureLon := CentroidOf(points)

	// The pure derivation is the structural guarantee behind idempotent
	// re-runs: it must agree exactly with the incremental path.
	assert.Equal(t, incLat, pureLat)
	assert.Equal(t, incLon, pureLon)
}
