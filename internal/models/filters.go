package models

// Paging bounds shared by the HTTP layer and the repositories.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// TripFilter represents filter parameters for querying trips
type TripFilter struct {
	ShiftID       int64   `form:"shiftId"`
	EmployeeID    int64   `form:"employeeId"`
	Date          string  `form:"date"`
	TransportMode string  `form:"mode"`
	MinDistance   float64 `form:"minDistance"`
	Page          int     `form:"page"`
	PageSize      int     `form:"pageSize"`
}

// Normalize applies the paging defaults and clamps the page size. Callers
// that report pagination metadata must normalize before computing it so the
// reported page size matches the one the query actually used.
func (f *TripFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// VehiclePeriodFilter represents filter parameters for querying vehicle periods
type VehiclePeriodFilter struct {
	EmployeeID int64  `form:"employeeId"`
	Type       string `form:"type"`
}
