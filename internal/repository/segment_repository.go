package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fieldmile/fieldmile-backend-go/internal/database"
	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

// SegmentRepository persists segmentation output: stationary clusters and
// trips. All writes go through ReplaceForShift so a shift's rows are always
// the product of exactly one recompute pass.
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// ReplaceForShift atomically replaces a shift's clusters and trips with the
// given set: delete-then-insert in one transaction, so a failed recompute
// leaves the prior persisted result untouched and a re-run never duplicates.
// Trip cluster references are resolved from pass-local indexes to the row
// ids assigned during this insert.
func (r *SegmentRepository) ReplaceForShift(ctx context.Context, shiftID int64, clusters []models.StationaryCluster, trips []models.Trip) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM trips WHERE shift_id = ?", shiftID); err != nil {
			return fmt.Errorf("failed to clear trips: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM stationary_clusters WHERE shift_id = ?", shiftID); err != nil {
			return fmt.Errorf("failed to clear clusters: %w", err)
		}

		clusterIDs := make([]int64, len(clusters))
		clusterStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO stationary_clusters (
				shift_id, employee_id, start_ts, end_ts,
				centroid_lat, centroid_lon, point_ids_json, point_count
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare cluster insert: %w", err)
		}
		defer clusterStmt.Close()

		for i, cl := range clusters {
			pointIDs, err := json.Marshal(cl.PointIDs)
			if err != nil {
				return fmt.Errorf("failed to marshal cluster point ids: %w", err)
			}
			res, err := clusterStmt.ExecContext(ctx,
				cl.ShiftID, cl.EmployeeID, cl.StartTime, cl.EndTime,
				cl.CentroidLat, cl.CentroidLon, string(pointIDs), cl.PointCount)
			if err != nil {
				return fmt.Errorf("failed to insert cluster: %w", err)
			}
			clusterIDs[i], err = res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read cluster id: %w", err)
			}
		}

		tripStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO trips (
				shift_id, employee_id, date, start_ts, end_ts,
				start_cluster_id, end_cluster_id,
				start_lat, start_lon, end_lat, end_lon,
				point_ids_json, transport_mode, distance_meters,
				avg_speed_mps, max_speed_mps, classification
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare trip insert: %w", err)
		}
		defer tripStmt.Close()

		for _, t := range trips {
			pointIDs, err := json.Marshal(t.PointIDs)
			if err != nil {
				return fmt.Errorf("failed to marshal trip point ids: %w", err)
			}
			var startID, endID interface{}
			if t.StartClusterIdx >= 0 && t.StartClusterIdx < len(clusterIDs) {
				startID = clusterIDs[t.StartClusterIdx]
			}
			if t.EndClusterIdx >= 0 && t.EndClusterIdx < len(clusterIDs) {
				endID = clusterIDs[t.EndClusterIdx]
			}
			if _, err := tripStmt.ExecContext(ctx,
				t.ShiftID, t.EmployeeID, t.Date, t.StartTime, t.EndTime,
				startID, endID,
				t.StartLat, t.StartLon, t.EndLat, t.EndLon,
				string(pointIDs), t.TransportMode, t.DistanceMeters,
				t.AvgSpeedMps, t.MaxSpeedMps, t.Classification); err != nil {
				return fmt.Errorf("failed to insert trip: %w", err)
			}
		}
		return nil
	})
}

// GetClustersByShift retrieves a shift's clusters ordered by start time.
func (r *SegmentRepository) GetClustersByShift(shiftID int64) ([]models.StationaryCluster, error) {
	rows, err := r.db.Query(`
		SELECT id, shift_id, employee_id, start_ts, end_ts,
			centroid_lat, centroid_lon, point_ids_json, point_count
		FROM stationary_clusters
		WHERE shift_id = ?
		ORDER BY start_ts
	`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clusters: %w", err)
	}
	defer rows.Close()

	var clusters []models.StationaryCluster
	for rows.Next() {
		var cl models.StationaryCluster
		var pointIDs string
		if err := rows.Scan(&cl.ID, &cl.ShiftID, &cl.EmployeeID, &cl.StartTime, &cl.EndTime,
			&cl.CentroidLat, &cl.CentroidLon, &pointIDs, &cl.PointCount); err != nil {
			return nil, fmt.Errorf("failed to scan cluster: %w", err)
		}
		if err := json.Unmarshal([]byte(pointIDs), &cl.PointIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cluster point ids: %w", err)
		}
		clusters = append(clusters, cl)
	}
	return clusters, rows.Err()
}
