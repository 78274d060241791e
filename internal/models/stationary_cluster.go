package models

// StationaryCluster represents a maximal run of coherent stopped points
// sharing one accuracy-weighted centroid. Mutable while the segmentation
// engine is building it, immutable once finalized.
type StationaryCluster struct {
	ID         int64 `json:"id" db:"id"`
	ShiftID    int64 `json:"shift_id" db:"shift_id"`
	EmployeeID int64 `json:"employee_id" db:"employee_id"`

	// Temporal info
	StartTime int64 `json:"start_time" db:"start_ts"` // Unix timestamp
	EndTime   int64 `json:"end_time" db:"end_ts"`     // Unix timestamp

	// Accuracy-weighted centroid
	CentroidLat float64 `json:"centroid_lat" db:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon" db:"centroid_lon"`

	// Contributing points, in timestamp order. Stored as a JSON array.
	PointIDs   []int64 `json:"point_ids" db:"point_ids_json"`
	PointCount int     `json:"point_count" db:"point_count"`
}
