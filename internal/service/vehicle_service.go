package service

import (
	"fmt"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/repository"
)

// VehicleService handles vehicle ownership periods
type VehicleService struct {
	vehicles *repository.VehicleRepository
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicles *repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// CreatePeriod validates and stores one vehicle period.
func (s *VehicleService) CreatePeriod(p models.VehiclePeriod) (int64, error) {
	if p.Type != models.VehicleTypePersonal && p.Type != models.VehicleTypeCompany {
		return 0, fmt.Errorf("invalid vehicle type %q", p.Type)
	}
	if p.EmployeeID <= 0 || p.StartedAt <= 0 {
		return 0, fmt.Errorf("employee id and started_at are required")
	}
	if p.EndedAt != nil && *p.EndedAt <= p.StartedAt {
		return 0, fmt.Errorf("ended_at must be after started_at")
	}
	return s.vehicles.Insert(p)
}

// GetPeriods retrieves vehicle periods with optional filtering.
func (s *VehicleService) GetPeriods(filter models.VehiclePeriodFilter) ([]models.VehiclePeriod, error) {
	return s.vehicles.GetPeriods(filter)
}
