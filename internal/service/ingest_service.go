package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
	"github.com/fieldmile/fieldmile-backend-go/internal/repository"
)

// IngestService stores raw shift points delivered by the mobile collector.
type IngestService struct {
	points *repository.PointRepository
}

// NewIngestService creates a new ingest service
func NewIngestService(points *repository.PointRepository) *IngestService {
	return &IngestService{points: points}
}

// IngestShiftPoints registers the shift and appends its raw points. Shape
// validation only; semantic filtering (negative values, ordering) is the
// segmentation engine's job so the raw record stays faithful.
func (s *IngestService) IngestShiftPoints(shift models.Shift, inputs []models.GpsPointInput) (int, error) {
	if shift.ID <= 0 || shift.EmployeeID <= 0 || shift.Date == "" {
		return 0, fmt.Errorf("shift id, employee id and date are required")
	}
	if err := s.points.UpsertShift(shift); err != nil {
		return 0, err
	}
	if err := s.points.InsertPoints(shift, inputs); err != nil {
		return 0, err
	}
	logrus.Infof("[Ingest] Shift %d: stored %d points", shift.ID, len(inputs))
	return len(inputs), nil
}
