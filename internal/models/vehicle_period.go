package models

// Vehicle period type constants
const (
	VehicleTypePersonal = "personal"
	VehicleTypeCompany  = "company"
)

// VehiclePeriod records an interval during which an employee had a vehicle
// of the given type. EndedAt is nil for an ongoing period. Periods of the
// same type for the same employee never overlap (enforced by the owning
// collaborator).
type VehiclePeriod struct {
	ID         int64  `json:"id" db:"id"`
	EmployeeID int64  `json:"employee_id" db:"employee_id"`
	Type       string `json:"type" db:"type"`
	StartedAt  int64  `json:"started_at" db:"started_at"`           // Unix timestamp
	EndedAt    *int64 `json:"ended_at,omitempty" db:"ended_at"`     // Unix timestamp, nil = ongoing
}

// ActiveOn reports whether the period covers any instant of the day
// [dayStart, dayEnd) given as unix timestamps.
func (p VehiclePeriod) ActiveOn(dayStart, dayEnd int64) bool {
	if p.StartedAt >= dayEnd {
		return false
	}
	if p.EndedAt != nil && *p.EndedAt <= dayStart {
		return false
	}
	return true
}
