package spatial

import "github.com/fieldmile/fieldmile-backend-go/internal/models"

// CentroidAccumulator maintains a running accuracy-weighted average position
// for a cluster of points. Weight decreases with reported accuracy radius so
// that precise fixes dominate. The accumulator holds plain weighted sums and
// no hidden mutable bias: the centroid is a pure function of the point set
// and its order-independent sums, so re-running over the same points yields
// an identical result.
type CentroidAccumulator struct {
	sumLat    float64
	sumLon    float64
	sumWeight float64
	count     int
}

// pointWeight maps an accuracy radius to a weight. The +1 keeps a perfect
// 0 m fix finite while still dominating coarse fixes.
func pointWeight(accuracyMeters float64) float64 {
	return 1.0 / (accuracyMeters + 1.0)
}

// Add folds one point into the running sums.
func (a *CentroidAccumulator) Add(lat, lon, accuracyMeters float64) {
	w := pointWeight(accuracyMeters)
	a.sumLat += lat * w
	a.sumLon += lon * w
	a.sumWeight += w
	a.count++
}

// Centroid returns the current weighted-average position. Calling it on an
// empty accumulator returns (0, 0).
func (a *CentroidAccumulator) Centroid() (lat, lon float64) {
	if a.sumWeight == 0 {
		return 0, 0
	}
	return a.sumLat / a.sumWeight, a.sumLon / a.sumWeight
}

// Count returns the number of points folded in so far.
func (a *CentroidAccumulator) Count() int {
	return a.count
}

// CentroidOf derives the accuracy-weighted centroid purely from a point set,
// without incremental state.
func CentroidOf(points []models.GpsPoint) (lat, lon float64) {
	var acc CentroidAccumulator
	for _, p := range points {
		acc.Add(p.Latitude, p.Longitude, p.AccuracyMeters)
	}
	return acc.Centroid()
}
