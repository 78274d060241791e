package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// Haversine calculates the great-circle distance between two points in meters
// using the Haversine formula
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// AccuracyAdjustedDistance returns the haversine distance from a centroid to
// a point after crediting the point with its own reported uncertainty radius,
// floored at zero. A highly uncertain point can never prove drift; this is
// the single coherence test used wherever a "did the location actually
// change" decision is needed.
func AccuracyAdjustedDistance(centLat, centLon float64, p models.GpsPoint) float64 {
	d := Haversine(centLat, centLon, p.Latitude, p.Longitude) - p.AccuracyMeters
	if d < 0 {
		return 0
	}
	return d
}

// PathDistance sums consecutive haversine distances over an ordered point
// sequence.
func PathDistance(points []models.GpsPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude)
	}
	return total
}
