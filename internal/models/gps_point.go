package models

// GpsPoint represents one raw GPS fix collected during a work shift.
// Points are immutable input to the segmentation engine and are ordered by
// timestamp within a shift.
type GpsPoint struct {
	ID         int64 `json:"id" db:"id"`
	ShiftID    int64 `json:"shift_id" db:"shift_id"`
	EmployeeID int64 `json:"employee_id" db:"employee_id"`

	Timestamp      int64   `json:"timestamp" db:"ts"` // Unix timestamp in seconds
	Latitude       float64 `json:"latitude" db:"latitude"`
	Longitude      float64 `json:"longitude" db:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters" db:"accuracy_m"` // reported GPS uncertainty radius
	SpeedMps       float64 `json:"speed_mps" db:"speed_mps"`
}

// GpsPointInput is the ingestion payload for one fix.
type GpsPointInput struct {
	Timestamp      int64   `json:"timestamp" binding:"required"`
	Latitude       float64 `json:"latitude" binding:"required"`
	Longitude      float64 `json:"longitude" binding:"required"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	SpeedMps       float64 `json:"speed_mps"`
}

// Shift is the unit of work for segmentation: one employee, one day of
// collected points.
type Shift struct {
	ID         int64  `json:"id" db:"id"`
	EmployeeID int64  `json:"employee_id" db:"employee_id"`
	Date       string `json:"date" db:"date"` // YYYY-MM-DD
}
