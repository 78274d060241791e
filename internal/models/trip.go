package models

// Transport mode constants
const (
	ModeWalking = "walking"
	ModeDriving = "driving"
	ModeOther   = "other"
)

// Trip classification constants (owned by the approval collaborator; the
// engine records trips as business by default).
const (
	ClassificationBusiness = "business"
	ClassificationPrivate  = "private"
)

// Trip represents a movement span between two stationary locations.
// Immutable once created by the segmentation engine.
type Trip struct {
	ID         int64  `json:"id" db:"id"`
	ShiftID    int64  `json:"shift_id" db:"shift_id"`
	EmployeeID int64  `json:"employee_id" db:"employee_id"`
	Date       string `json:"date" db:"date"` // YYYY-MM-DD

	// Temporal info
	StartTime int64 `json:"start_time" db:"start_ts"` // Unix timestamp
	EndTime   int64 `json:"end_time" db:"end_ts"`     // Unix timestamp

	// Start/end references: the bounding cluster when the trip connects two
	// stationary locations, nil when the boundary is a raw point (e.g. a
	// shift that starts or ends mid-movement).
	StartClusterID *int64 `json:"start_cluster_id,omitempty" db:"start_cluster_id"`
	EndClusterID   *int64 `json:"end_cluster_id,omitempty" db:"end_cluster_id"`

	// StartClusterIdx/EndClusterIdx index into the cluster slice produced by
	// the same segmentation pass (-1 when the boundary is a raw point); the
	// repository resolves them to row ids at insert time.
	StartClusterIdx int `json:"-" db:"-"`
	EndClusterIdx   int `json:"-" db:"-"`

	StartLat float64 `json:"start_lat" db:"start_lat"`
	StartLon float64 `json:"start_lon" db:"start_lon"`
	EndLat   float64 `json:"end_lat" db:"end_lat"`
	EndLon   float64 `json:"end_lon" db:"end_lon"`

	// Trip characteristics
	PointIDs       []int64 `json:"point_ids" db:"point_ids_json"`
	TransportMode  string  `json:"transport_mode" db:"transport_mode"`
	DistanceMeters float64 `json:"distance_meters" db:"distance_meters"`
	AvgSpeedMps    float64 `json:"avg_speed_mps" db:"avg_speed_mps"`
	MaxSpeedMps    float64 `json:"max_speed_mps" db:"max_speed_mps"`

	Classification string `json:"classification" db:"classification"`
}
