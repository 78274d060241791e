package segmentation

import (
	"fmt"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/spatial"
)

// Tunable thresholds. These are chosen constants, not derived values.
const (
	// StopSpeedMps is the speed at or below which a point is a candidate
	// stopped point.
	StopSpeedMps = 0.28

	// TripStartSpeedMps is the speed at or above which movement is
	// confirmed (8 km/h).
	TripStartSpeedMps = 8.0 / 3.6

	// CoherenceRadiusMeters is the accuracy-adjusted distance beyond which
	// a stopped point cannot belong to the current cluster.
	CoherenceRadiusMeters = 50.0

	// Minimum displacement below which a detected trip is a ghost and is
	// discarded. Driving trips use the larger threshold; walking and other
	// trips use the smaller one.
	MinDisplacementWalkMeters  = 100.0
	MinDisplacementDriveMeters = 500.0
)

// state is the segmentation state machine's current mode.
type state int

const (
	stateUnclaimed state = iota // buffering points not yet classified
	stateStopped                // building a stationary cluster
	stateInTrip                 // building a trip
)

// Result is the output of one segmentation pass over a shift's points.
type Result struct {
	Clusters []models.StationaryCluster
	Trips    []models.Trip

	// Warnings collects non-fatal anomalies (malformed points, unresolved
	// buffers). The pass always completes; anomalies never abort a shift.
	Warnings      []string
	DroppedPoints int
	GhostTrips    int
}

// Engine segments one shift's ordered point stream into stationary clusters
// and trips. It is a single-use value: construct, Run once, read the result.
//
// The engine starts in the unclaimed state; the first point opens a cluster
// only if its speed is at or below the stop threshold, otherwise it is
// buffered until a confirmed stop or trip start resolves it.
type Engine struct {
	shift models.Shift

	state  state
	lastTS int64

	// Open cluster, valid while state == stateStopped. The cluster lives in
	// clusters[openIdx] from the moment it opens; "finalizing" just closes
	// it to further points.
	openIdx  int
	acc      spatial.CentroidAccumulator
	lastStop models.GpsPoint

	// Unclaimed buffer: points too fast to be a stop and too slow to be a
	// confirmed trip, held pending resolution.
	buffer []models.GpsPoint

	// Open trip, valid while state == stateInTrip.
	tripPoints   []models.GpsPoint
	tripStartIdx int
	tripStart    *models.GpsPoint

	clusters []models.StationaryCluster
	trips    []models.Trip
	warnings []string
	dropped  int
	ghosts   int
}

// NewEngine creates an engine for one shift.
func NewEngine(shift models.Shift) *Engine {
	return &Engine{
		shift:   shift,
		state:   stateUnclaimed,
		openIdx: -1,
	}
}

// Run processes the shift's points in order and returns the segmentation
// result. Points must be sorted by timestamp; a point that violates
// monotonicity or carries negative accuracy or speed is dropped with a
// warning and processing continues.
func (e *Engine) Run(points []models.GpsPoint) Result {
	for _, p := range points {
		if !e.validate(p) {
			continue
		}
		e.lastTS = p.Timestamp

		switch {
		case p.SpeedMps <= StopSpeedMps:
			e.handleStopCandidate(p)
		case p.SpeedMps >= TripStartSpeedMps:
			e.handleConfirmedMoving(p)
		default:
			e.handleAmbiguous(p)
		}
	}
	e.finish()

	return Result{
		Clusters:      e.clusters,
		Trips:         e.trips,
		Warnings:      e.warnings,
		DroppedPoints: e.dropped,
		GhostTrips:    e.ghosts,
	}
}

// validate rejects malformed points without aborting the pass.
func (e *Engine) validate(p models.GpsPoint) bool {
	if p.AccuracyMeters < 0 || p.SpeedMps < 0 {
		e.warnf("dropped point %d: negative accuracy or speed", p.ID)
		e.dropped++
		return false
	}
	if e.lastTS != 0 && p.Timestamp <= e.lastTS {
		e.warnf("dropped point %d: non-monotonic timestamp %d (last %d)", p.ID, p.Timestamp, e.lastTS)
		e.dropped++
		return false
	}
	return true
}

// handleStopCandidate processes a point at or below the stop speed.
func (e *Engine) handleStopCandidate(p models.GpsPoint) {
	if e.state == stateStopped {
		cl := &e.clusters[e.openIdx]
		if spatial.AccuracyAdjustedDistance(cl.CentroidLat, cl.CentroidLon, p) <= CoherenceRadiusMeters {
			e.absorb(p)
			return
		}
		// Spatial coherence broke: finalize the cluster as-is and
		// materialize the connecting trip from the unclaimed buffer,
		// bounded by the cluster's last point and this point.
		prevIdx := e.openIdx
		start := e.lastStop
		e.closeCluster()
		end := p
		e.emitTrip(e.buffer, prevIdx, &start, len(e.clusters), &end)
		e.buffer = nil
		e.openCluster(p)
		return
	}

	if e.state == stateInTrip {
		// The trip ends at the first point of the cluster that follows it.
		endIdx := len(e.clusters)
		end := p
		e.finalizeTrip(endIdx, &end)
		e.openCluster(p)
		return
	}

	// Unclaimed: open a cluster seeded by this point. A non-empty buffer is
	// a movement span with no preceding cluster (shift started mid-walk).
	newIdx := len(e.clusters)
	if len(e.buffer) > 0 {
		end := p
		e.emitTrip(e.buffer, -1, nil, newIdx, &end)
		e.buffer = nil
	}
	e.openCluster(p)
}

// handleConfirmedMoving processes a point at or above the trip-start speed.
func (e *Engine) handleConfirmedMoving(p models.GpsPoint) {
	switch e.state {
	case stateInTrip:
		e.tripPoints = append(e.tripPoints, p)
	case stateStopped:
		startIdx := e.openIdx
		start := e.lastStop
		e.closeCluster()
		e.startTrip(startIdx, &start, append(e.buffer, p))
		e.buffer = nil
	default: // stateUnclaimed
		e.startTrip(-1, nil, append(e.buffer, p))
		e.buffer = nil
	}
}

// handleAmbiguous processes a point in the band between the stop and
// trip-start thresholds. While a trip is open this is tolerated deceleration
// and stays in the trip; otherwise the point waits in the unclaimed buffer
// until a confirmed stop or trip start resolves it.
func (e *Engine) handleAmbiguous(p models.GpsPoint) {
	if e.state == stateInTrip {
		e.tripPoints = append(e.tripPoints, p)
		return
	}
	e.buffer = append(e.buffer, p)
}

// finish resolves whatever is open at end of stream.
func (e *Engine) finish() {
	if e.state == stateStopped {
		e.closeCluster()
	}
	if e.state == stateInTrip {
		e.finalizeTrip(-1, nil)
	}
	if n := len(e.buffer); n > 0 {
		// A trailing buffer has no end reference and cannot be resolved
		// into a trip. Expected for shifts that end mid-walk.
		e.warnf("discarded %d unresolved unclaimed points at end of shift", n)
		e.buffer = nil
	}
}

// openCluster starts a new stationary cluster seeded by p.
func (e *Engine) openCluster(p models.GpsPoint) {
	e.acc = spatial.CentroidAccumulator{}
	e.clusters = append(e.clusters, models.StationaryCluster{
		ShiftID:    e.shift.ID,
		EmployeeID: e.shift.EmployeeID,
		StartTime:  p.Timestamp,
	})
	e.openIdx = len(e.clusters) - 1
	e.state = stateStopped
	e.absorb(p)
}

// absorb folds a coherent stopped point into the open cluster. Any buffered
// ambiguous points were jitter between two fixes of the same location; they
// join the cluster's point set without weighing into its centroid.
func (e *Engine) absorb(p models.GpsPoint) {
	cl := &e.clusters[e.openIdx]
	for _, b := range e.buffer {
		cl.PointIDs = append(cl.PointIDs, b.ID)
	}
	e.buffer = nil

	e.acc.Add(p.Latitude, p.Longitude, p.AccuracyMeters)
	cl.CentroidLat, cl.CentroidLon = e.acc.Centroid()
	cl.PointIDs = append(cl.PointIDs, p.ID)
	cl.PointCount = len(cl.PointIDs)
	cl.EndTime = p.Timestamp
	e.lastStop = p
}

// closeCluster finalizes the open cluster; it is immutable afterwards.
func (e *Engine) closeCluster() {
	e.openIdx = -1
	e.state = stateUnclaimed
}

// startTrip opens a trip. startIdx is the index of the bounding cluster in
// the pass's cluster slice, -1 when the trip starts from a raw point; start
// is the cluster's last point when present.
func (e *Engine) startTrip(startIdx int, start *models.GpsPoint, points []models.GpsPoint) {
	e.tripStartIdx = startIdx
	e.tripStart = start
	e.tripPoints = points
	e.state = stateInTrip
}

// finalizeTrip closes the open trip at the given end reference.
func (e *Engine) finalizeTrip(endIdx int, end *models.GpsPoint) {
	e.emitTrip(e.tripPoints, e.tripStartIdx, e.tripStart, endIdx, end)
	e.tripPoints = nil
	e.tripStart = nil
	e.tripStartIdx = -1
	e.state = stateUnclaimed
}

// emitTrip materializes a trip from an ordered point sequence plus optional
// bounding points, classifies its transport mode, and keeps it unless it
// falls below the minimum displacement for that mode (a ghost trip).
func (e *Engine) emitTrip(points []models.GpsPoint, startIdx int, start *models.GpsPoint, endIdx int, end *models.GpsPoint) {
	// Boundary-inclusive sequence for geometry; the bounding points
	// themselves belong to their clusters, not to the trip.
	seq := make([]models.GpsPoint, 0, len(points)+2)
	if start != nil {
		seq = append(seq, *start)
	}
	seq = append(seq, points...)
	if end != nil {
		seq = append(seq, *end)
	}
	if len(seq) < 2 {
		// A trip needs a span. This happens when the stream ends right
		// after a single confirmed-moving point with no preceding cluster.
		if len(seq) == 1 {
			e.warnf("discarded single-point trip (point %d): no span", seq[0].ID)
		}
		return
	}

	distance := spatial.PathDistance(seq)
	startTS := seq[0].Timestamp
	endTS := seq[len(seq)-1].Timestamp
	mode, avgSpeed, maxSpeed := ClassifyMode(points, distance, endTS-startTS)

	if distance < minDisplacement(mode) {
		e.ghosts++
		return
	}

	trip := models.Trip{
		ShiftID:         e.shift.ID,
		EmployeeID:      e.shift.EmployeeID,
		Date:            e.shift.Date,
		StartTime:       startTS,
		EndTime:         endTS,
		StartClusterIdx: startIdx,
		EndClusterIdx:   endIdx,
		StartLat:        seq[0].Latitude,
		StartLon:        seq[0].Longitude,
		EndLat:          seq[len(seq)-1].Latitude,
		EndLon:          seq[len(seq)-1].Longitude,
		TransportMode:   mode,
		DistanceMeters:  distance,
		AvgSpeedMps:     avgSpeed,
		MaxSpeedMps:     maxSpeed,
		Classification:  models.ClassificationBusiness,
	}
	for _, p := range points {
		trip.PointIDs = append(trip.PointIDs, p.ID)
	}
	e.trips = append(e.trips, trip)
}

// minDisplacement returns the ghost-trip threshold for a transport mode.
func minDisplacement(mode string) float64 {
	if mode == models.ModeDriving {
		return MinDisplacementDriveMeters
	}
	return MinDisplacementWalkMeters
}

func (e *Engine) warnf(format string, args ...interface{}) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}
