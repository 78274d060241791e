package models

// CarpoolGroup status constants
const (
	CarpoolStatusAutoDetected = "auto_detected"
	CarpoolStatusConfirmed    = "confirmed"
	CarpoolStatusDismissed    = "dismissed"
)

// Carpool member role constants
const (
	RoleDriver     = "driver"
	RolePassenger  = "passenger"
	RoleUnassigned = "unassigned"
)

// CarpoolGroup represents a set of same-day driving trips linked by spatial
// and temporal proximity, inferred to be one shared ride.
type CarpoolGroup struct {
	ID               int64  `json:"id" db:"id"`
	TripDate         string `json:"trip_date" db:"trip_date"` // YYYY-MM-DD
	Status           string `json:"status" db:"status"`
	DriverEmployeeID *int64 `json:"driver_employee_id,omitempty" db:"driver_employee_id"`
	ReviewNeeded     bool   `json:"review_needed" db:"review_needed"`

	Members []CarpoolMember `json:"members" db:"-"`
}

// CarpoolMember links one trip (and its employee) to a carpool group.
// One row per (group, trip).
type CarpoolMember struct {
	ID         int64  `json:"id" db:"id"`
	GroupID    int64  `json:"group_id" db:"group_id"`
	TripID     int64  `json:"trip_id" db:"trip_id"`
	EmployeeID int64  `json:"employee_id" db:"employee_id"`
	Role       string `json:"role" db:"role"`
}
