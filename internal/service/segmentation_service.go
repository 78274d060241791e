package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fieldmile/fieldmile-backend-go/internal/repository"
	"github.com/fieldmile/fieldmile-backend-go/internal/segmentation"
)

// SegmentationSummary reports one shift's recompute outcome.
type SegmentationSummary struct {
	ShiftID       int64    `json:"shift_id"`
	Clusters      int      `json:"clusters"`
	Trips         int      `json:"trips"`
	DroppedPoints int      `json:"dropped_points"`
	GhostTrips    int      `json:"ghost_trips"`
	Warnings      []string `json:"warnings,omitempty"`
}

// SegmentationService orchestrates trajectory segmentation: load a shift's
// ordered points, run the pure engine, atomically replace the shift's
// persisted clusters and trips.
type SegmentationService struct {
	points   *repository.PointRepository
	segments *repository.SegmentRepository
}

// NewSegmentationService creates a new segmentation service
func NewSegmentationService(points *repository.PointRepository, segments *repository.SegmentRepository) *SegmentationService {
	return &SegmentationService{points: points, segments: segments}
}

// RecomputeShift recomputes segmentation for one shift. Idempotent: the
// shift's previous clusters and trips are replaced wholesale. The caller is
// responsible for not running two recomputations of the same shift
// concurrently.
func (s *SegmentationService) RecomputeShift(ctx context.Context, shiftID int64) (*SegmentationSummary, error) {
	shift, err := s.points.GetShiftByID(shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("shift %d not found", shiftID)
	}

	points, err := s.points.GetPointsByShift(shiftID)
	if err != nil {
		return nil, err
	}

	logrus.Infof("[Segmentation] Recomputing shift %d: %d points", shiftID, len(points))

	result := segmentation.NewEngine(*shift).Run(points)
	for _, w := range result.Warnings {
		logrus.Warnf("[Segmentation] shift %d: %s", shiftID, w)
	}

	if err := s.segments.ReplaceForShift(ctx, shiftID, result.Clusters, result.Trips); err != nil {
		return nil, fmt.Errorf("failed to persist segmentation for shift %d: %w", shiftID, err)
	}

	logrus.Infof("[Segmentation] Shift %d: %d clusters, %d trips (%d ghosts, %d dropped points)",
		shiftID, len(result.Clusters), len(result.Trips), result.GhostTrips, result.DroppedPoints)

	return &SegmentationSummary{
		ShiftID:       shiftID,
		Clusters:      len(result.Clusters),
		Trips:         len(result.Trips),
		DroppedPoints: result.DroppedPoints,
		GhostTrips:    result.GhostTrips,
		Warnings:      result.Warnings,
	}, nil
}

// RecomputeDate recomputes segmentation for every shift on a calendar date.
// Shifts are independent units with no shared mutable state, so they run
// concurrently; each one's write is its own transaction.
func (s *SegmentationService) RecomputeDate(ctx context.Context, date string) ([]*SegmentationSummary, error) {
	shifts, err := s.points.GetShiftsByDate(date)
	if err != nil {
		return nil, err
	}

	summaries := make([]*SegmentationSummary, len(shifts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, shift := range shifts {
		i, shiftID := i, shift.ID
		g.Go(func() error {
			summary, err := s.RecomputeShift(ctx, shiftID)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
