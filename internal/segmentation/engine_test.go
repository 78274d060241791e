package segmentation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/spatial"
)

const (
	baseLat = 47.0
	baseLon = 8.0
)

var metersPerDegreeLat = spatial.EarthRadiusMeters * math.Pi / 180.0

var testShift = models.Shift{ID: 7, EmployeeID: 3, Date: "2024-05-14"}

// track builds ordered point streams for engine tests. Points advance along
// the latitude axis so displacements are easy to reason about in meters.
type track struct {
	points []models.GpsPoint
	nextID int64
	nextTS int64
}

func newTrack() *track {
	return &track{nextID: 1, nextTS: 1000}
}

// add appends one point at the given displacement (meters north of the
// track origin) with the given speed and accuracy, 10 seconds after the
// previous point.
func (tr *track) add(meters, speed, accuracy float64) models.GpsPoint {
	p := models.GpsPoint{
		ID:             tr.nextID,
		ShiftID:        testShift.ID,
		EmployeeID:     testShift.EmployeeID,
		Timestamp:      tr.nextTS,
		Latitude:       baseLat + meters/metersPerDegreeLat,
		Longitude:      baseLon,
		AccuracyMeters: accuracy,
		SpeedMps:       speed,
	}
	tr.nextID++
	tr.nextTS += 10
	tr.points = append(tr.points, p)
	return p
}

// addStops appends n stopped points at a fixed displacement.
func (tr *track) addStops(n int, meters float64) {
	for i := 0; i < n; i++ {
		tr.add(meters, 0.1, 5)
	}
}

// addWalk appends n ambiguous-band points evenly interpolated between two
// displacements.
func (tr *track) addWalk(n int, fromMeters, toMeters float64) {
	for i := 0; i < n; i++ {
		frac := float64(i+1) / float64(n+1)
		tr.add(fromMeters+frac*(toMeters-fromMeters), 1.0, 15)
	}
}

// addDrive appends confirmed-moving points evenly spaced between two
// displacements.
func (tr *track) addDrive(n int, fromMeters, toMeters, speed float64) {
	for i := 0; i < n; i++ {
		frac := float64(i+1) / float64(n+1)
		tr.add(fromMeters+frac*(toMeters-fromMeters), speed, 8)
	}
}

func run(tr *track) Result {
	return NewEngine(testShift).Run(tr.points)
}

func TestEngineEndToEnd(t *testing.T) {
	// A stationary period, a 6-minute walk of ~285 m, and a second
	// stationary period at the new location.
	tr := newTrack()
	tr.addStops(30, 0)
	tr.addWalk(16, 0, 285)
	tr.addStops(30, 285)

	result := run(tr)

	require.Len(t, result.Clusters, 2)
	require.Len(t, result.Trips, 1)
	assert.Equal(t, 0, result.DroppedPoints)
	assert.Equal(t, 0, result.GhostTrips)

	c1, c2 := result.Clusters[0], result.Clusters[1]
	assert.Len(t, c1.PointIDs, 30)
	assert.Len(t, c2.PointIDs, 30)
	assert.InDelta(t, baseLat, c1.CentroidLat, 1e-6)
	assert.InDelta(t, 285, spatial.Haversine(c1.CentroidLat, c1.CentroidLon, c2.CentroidLat, c2.CentroidLon), 2.0)
	// Cluster 1 is finalized before cluster 2 opens; they never overlap.
	assert.Less(t, c1.EndTime, c2.StartTime)

	trip := result.Trips[0]
	assert.Equal(t, models.ModeWalking, trip.TransportMode)
	assert.InDelta(t, 285, trip.DistanceMeters, 2.0)
	assert.Len(t, trip.PointIDs, 16)
	assert.Equal(t, 0, trip.StartClusterIdx)
	assert.Equal(t, 1, trip.EndClusterIdx)
	assert.Equal(t, c1.EndTime, trip.StartTime)
	assert.Equal(t, c2.StartTime, trip.EndTime)
}

func TestEngineIdempotent(t *testing.T) {
	tr := newTrack()
	tr.addStops(10, 0)
	tr.addDrive(20, 0, 900, 12)
	tr.addStops(10, 900)
	tr.addWalk(8, 900, 1040)
	tr.addStops(5, 1040)

	first := NewEngine(testShift).Run(tr.points)
	second := NewEngine(testShift).Run(tr.points)
	assert.Equal(t, first, second)
}

func TestEnginePartitionInvariant(t *testing.T) {
	tr := newTrack()
	tr.addStops(12, 0)
	tr.addWalk(10, 0, 200)
	tr.addStops(8, 200)
	tr.addDrive(15, 200, 1200, 10)
	tr.addStops(6, 1200)

	result := run(tr)

	seen := make(map[int64]int)
	for _, cl := range result.Clusters {
		for _, id := range cl.PointIDs {
			seen[id]++
		}
	}
	for _, trip := range result.Trips {
		for _, id := range trip.PointIDs {
			seen[id]++
		}
	}

	// Every input point lands in exactly one cluster or trip.
	for _, p := range tr.points {
		assert.Equal(t, 1, seen[p.ID], "point %d", p.ID)
	}
	assert.Len(t, seen, len(tr.points))
}

func TestEngineGhostTrips(t *testing.T) {
	cases := []struct {
		name   string
		build  func() *track
		trips  int
		ghosts int
		mode   string
	}{
		{
			name: "walking 80m discarded",
			build: func() *track {
				tr := newTrack()
				tr.addStops(5, 0)
				tr.addWalk(4, 0, 80)
				tr.addStops(5, 80)
				return tr
			},
			trips:  0,
			ghosts: 1,
		},
		{
			name: "walking 120m kept",
			build: func() *track {
				tr := newTrack()
				tr.addStops(5, 0)
				tr.addWalk(4, 0, 120)
				tr.addStops(5, 120)
				return tr
			},
			trips: 1,
			mode:  models.ModeWalking,
		},
		{
			name: "driving 450m discarded",
			build: func() *track {
				tr := newTrack()
				tr.addStops(5, 0)
				tr.addDrive(8, 0, 450, 10)
				tr.addStops(5, 450)
				return tr
			},
			trips:  0,
			ghosts: 1,
		},
		{
			name: "driving 520m kept",
			build: func() *track {
				tr := newTrack()
				tr.addStops(5, 0)
				tr.addDrive(8, 0, 520, 10)
				tr.addStops(5, 520)
				return tr
			},
			trips: 1,
			mode:  models.ModeDriving,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := run(tc.build())
			require.Len(t, result.Trips, tc.trips)
			assert.Equal(t, tc.ghosts, result.GhostTrips)
			assert.Len(t, result.Clusters, 2)
			if tc.trips == 1 {
				assert.Equal(t, tc.mode, result.Trips[0].TransportMode)
			}
		})
	}
}

func TestEngineCoherentJitterAbsorbed(t *testing.T) {
	// Ambiguous points between two fixes of the same location are jitter:
	// no split, no trip, points folded into the cluster.
	tr := newTrack()
	tr.addStops(10, 0)
	tr.addWalk(3, 0, 20)
	tr.addStops(10, 10)

	result := run(tr)
	require.Len(t, result.Clusters, 1)
	assert.Empty(t, result.Trips)
	assert.Len(t, result.Clusters[0].PointIDs, 23)
}

func TestEngineTripToleratesDeceleration(t *testing.T) {
	// A brief sub-threshold dip mid-drive stays inside the trip.
	tr := newTrack()
	tr.addStops(5, 0)
	tr.addDrive(10, 0, 600, 12)
	tr.add(620, 1.5, 8) // deceleration, still in trip
	tr.addDrive(10, 640, 1200, 12)
	tr.addStops(5, 1200)

	result := run(tr)
	require.Len(t, result.Trips, 1)
	require.Len(t, result.Clusters, 2)
	assert.Len(t, result.Trips[0].PointIDs, 21)
	assert.Equal(t, models.ModeDriving, result.Trips[0].TransportMode)
}

func TestEngineStartsMidMovement(t *testing.T) {
	// First point already above the trip-start speed: no opening cluster,
	// the trip starts from a raw point.
	tr := newTrack()
	tr.addDrive(12, 0, 800, 10)
	tr.addStops(5, 800)

	result := run(tr)
	require.Len(t, result.Trips, 1)
	require.Len(t, result.Clusters, 1)
	trip := result.Trips[0]
	assert.Equal(t, -1, trip.StartClusterIdx)
	assert.Equal(t, 0, trip.EndClusterIdx)
	assert.Equal(t, models.ModeDriving, trip.TransportMode)
}

func TestEngineUnresolvedBufferDiscarded(t *testing.T) {
	// Shift ends mid-walk: the trailing buffer has no end reference and is
	// discarded with a warning, never an error.
	tr := newTrack()
	tr.addStops(10, 0)
	tr.addWalk(6, 0, 150)

	result := run(tr)
	require.Len(t, result.Clusters, 1)
	assert.Empty(t, result.Trips)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "unresolved")
}

func TestEngineRejectsMalformedPoints(t *testing.T) {
	tr := newTrack()
	tr.addStops(10, 0)

	// Non-monotonic timestamp
	bad1 := tr.add(0, 0.1, 5)
	bad1.Timestamp = tr.points[0].Timestamp
	tr.points[len(tr.points)-1] = bad1

	// Negative speed
	bad2 := tr.add(0, 0.1, 5)
	bad2.SpeedMps = -1
	tr.points[len(tr.points)-1] = bad2

	tr.addStops(5, 0)

	result := run(tr)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, 2, result.DroppedPoints)
	assert.Len(t, result.Warnings, 2)
	assert.Len(t, result.Clusters[0].PointIDs, 15)
}

func TestEngineSplitAcrossRecordingGap(t *testing.T) {
	// Two stationary periods with no points in between (device asleep):
	// the split still finalizes the first cluster and opens the second;
	// the connecting "trip" covers 600 m in 10 s of wall time between two
	// fixes, is classified from displacement over duration, and kept.
	tr := newTrack()
	tr.addStops(10, 0)
	tr.addStops(10, 600)

	result := run(tr)
	require.Len(t, result.Clusters, 2)
	require.Len(t, result.Trips, 1)
	trip := result.Trips[0]
	assert.Empty(t, trip.PointIDs)
	assert.Equal(t, models.ModeDriving, trip.TransportMode)
	assert.InDelta(t, 600, trip.DistanceMeters, 2.0)
}

func TestEngineSinglePointTripDiscarded(t *testing.T) {
	// A lone confirmed-moving point at end of stream has no span to form a
	// trip; it is discarded with a warning rather than silently.
	tr := newTrack()
	tr.add(0, 10.0, 8)

	res := run(tr)
	assert.Empty(t, res.Clusters)
	assert.Empty(t, res.Trips)
	assert.Zero(t, res.GhostTrips)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "single-point")
}
