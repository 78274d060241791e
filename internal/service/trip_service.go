package service

import (
	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/repository"
)

// TripService handles read access to segmentation output
type TripService struct {
	trips    *repository.TripRepository
	segments *repository.SegmentRepository
}

// NewTripService creates a new trip service
func NewTripService(trips *repository.TripRepository, segments *repository.SegmentRepository) *TripService {
	return &TripService{trips: trips, segments: segments}
}

// GetTrips retrieves trips with filtering and pagination
func (s *TripService) GetTrips(filter models.TripFilter) ([]models.Trip, int64, error) {
	return s.trips.GetTrips(filter)
}

// GetTripsByShift retrieves a shift's trips
func (s *TripService) GetTripsByShift(shiftID int64) ([]models.Trip, error) {
	return s.trips.GetTripsByShift(shiftID)
}

// GetClustersByShift retrieves a shift's stationary clusters
func (s *TripService) GetClustersByShift(shiftID int64) ([]models.StationaryCluster, error) {
	return s.segments.GetClustersByShift(shiftID)
}
