package service

import (
	"fmt"

	"github.com/fieldmile/fieldmile-backend-go/internal/carpool"
	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/reimbursement"
	"github.com/fieldmile/fieldmile-backend-go/internal/repository"
)

// TripReimbursement pairs a trip with its resolved eligibility for the
// reporting layer.
type TripReimbursement struct {
	Trip         models.Trip `json:"trip"`
	Reimbursable bool        `json:"reimbursable"`
	CarpoolRole  string      `json:"carpool_role,omitempty"`
}

// ReimbursementService joins trips, carpool roles and vehicle periods
// through the pure eligibility resolver. Read-only.
type ReimbursementService struct {
	trips    *repository.TripRepository
	carpools *repository.CarpoolRepository
	vehicles *repository.VehicleRepository
}

// NewReimbursementService creates a new reimbursement service
func NewReimbursementService(trips *repository.TripRepository, carpools *repository.CarpoolRepository, vehicles *repository.VehicleRepository) *ReimbursementService {
	return &ReimbursementService{trips: trips, carpools: carpools, vehicles: vehicles}
}

// TripReport resolves reimbursement eligibility for every trip on a date.
func (s *ReimbursementService) TripReport(date string) ([]TripReimbursement, error) {
	dayStart, dayEnd, err := carpool.DayWindow(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	trips, err := s.trips.GetTripsByDate(date)
	if err != nil {
		return nil, err
	}

	groups, err := s.carpools.GetGroupsByDate(date)
	if err != nil {
		return nil, err
	}
	standings := make(map[int64]reimbursement.CarpoolStanding)
	for _, g := range groups {
		for _, m := range g.Members {
			standings[m.TripID] = reimbursement.CarpoolStanding{InGroup: true, Role: m.Role}
		}
	}

	periods, err := s.vehicles.GetActiveInWindow(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	hasCompany := make(map[int64]bool)
	for _, p := range periods {
		if p.Type == models.VehicleTypeCompany && p.ActiveOn(dayStart, dayEnd) {
			hasCompany[p.EmployeeID] = true
		}
	}

	report := make([]TripReimbursement, 0, len(trips))
	for _, t := range trips {
		standing := standings[t.ID]
		report = append(report, TripReimbursement{
			Trip:         t,
			Reimbursable: reimbursement.Eligible(t, hasCompany[t.EmployeeID], standing),
			CarpoolRole:  standing.Role,
		})
	}
	return report, nil
}
