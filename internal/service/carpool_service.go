package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fieldmile/fieldmile-backend-go/internal/carpool"
	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/repository"
)

// CarpoolSummary reports one date's detection outcome.
type CarpoolSummary struct {
	Date         string `json:"date"`
	DrivingTrips int    `json:"driving_trips"`
	Groups       int    `json:"groups"`
	ReviewNeeded int    `json:"review_needed"`
}

// CarpoolService orchestrates carpool detection for one calendar date.
type CarpoolService struct {
	trips    *repository.TripRepository
	carpools *repository.CarpoolRepository
	vehicles *repository.VehicleRepository
}

// NewCarpoolService creates a new carpool service
func NewCarpoolService(trips *repository.TripRepository, carpools *repository.CarpoolRepository, vehicles *repository.VehicleRepository) *CarpoolService {
	return &CarpoolService{trips: trips, carpools: carpools, vehicles: vehicles}
}

// RecomputeDate recomputes carpool groups for a date from that date's
// driving trips and the vehicle periods active on it. Idempotent: the date's
// prior groups are replaced wholesale, and unchanged input yields identical
// groups because every ordering and tie-break uses a total order.
func (s *CarpoolService) RecomputeDate(ctx context.Context, date string) (*CarpoolSummary, error) {
	dayStart, dayEnd, err := carpool.DayWindow(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	trips, err := s.trips.GetDrivingTripsByDate(date)
	if err != nil {
		return nil, err
	}
	periods, err := s.vehicles.GetActiveInWindow(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	groups := carpool.DetectGroups(date, trips, periods)
	if err := s.carpools.ReplaceForDate(ctx, date, groups); err != nil {
		return nil, fmt.Errorf("failed to persist carpool groups for %s: %w", date, err)
	}

	review := 0
	for _, g := range groups {
		if g.ReviewNeeded {
			review++
		}
	}
	logrus.Infof("[Carpool] Date %s: %d driving trips, %d groups (%d need review)",
		date, len(trips), len(groups), review)

	return &CarpoolSummary{
		Date:         date,
		DrivingTrips: len(trips),
		Groups:       len(groups),
		ReviewNeeded: review,
	}, nil
}

// GetGroups retrieves a date's persisted carpool groups with members.
func (s *CarpoolService) GetGroups(date string) ([]models.CarpoolGroup, error) {
	return s.carpools.GetGroupsByDate(date)
}
