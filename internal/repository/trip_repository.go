package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

const tripColumns = `id, shift_id, employee_id, date, start_ts, end_ts,
	start_cluster_id, end_cluster_id,
	start_lat, start_lon, end_lat, end_lon,
	point_ids_json, transport_mode, distance_meters,
	avg_speed_mps, max_speed_mps, classification`

// TripRepository handles read access to persisted trips
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

func scanTrip(rows *sql.Rows) (models.Trip, error) {
	var t models.Trip
	var startID, endID sql.NullInt64
	var pointIDs string
	err := rows.Scan(
		&t.ID, &t.ShiftID, &t.EmployeeID, &t.Date, &t.StartTime, &t.EndTime,
		&startID, &endID,
		&t.StartLat, &t.StartLon, &t.EndLat, &t.EndLon,
		&pointIDs, &t.TransportMode, &t.DistanceMeters,
		&t.AvgSpeedMps, &t.MaxSpeedMps, &t.Classification,
	)
	if err != nil {
		return t, fmt.Errorf("failed to scan trip: %w", err)
	}
	if startID.Valid {
		t.StartClusterID = &startID.Int64
	}
	if endID.Valid {
		t.EndClusterID = &endID.Int64
	}
	if err := json.Unmarshal([]byte(pointIDs), &t.PointIDs); err != nil {
		return t, fmt.Errorf("failed to unmarshal trip point ids: %w", err)
	}
	t.StartClusterIdx = -1
	t.EndClusterIdx = -1
	return t, nil
}

// GetTrips retrieves trips with filtering and pagination
func (r *TripRepository) GetTrips(filter models.TripFilter) ([]models.Trip, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.ShiftID > 0 {
		conditions = append(conditions, "shift_id = ?")
		args = append(args, filter.ShiftID)
	}
	if filter.EmployeeID > 0 {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.Date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.TransportMode != "" {
		conditions = append(conditions, "transport_mode = ?")
		args = append(args, filter.TransportMode)
	}
	if filter.MinDistance > 0 {
		conditions = append(conditions, "distance_meters >= ?")
		args = append(args, filter.MinDistance)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trips"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	filter.Normalize()
	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query("SELECT "+tripColumns+" FROM trips"+where+
		" ORDER BY start_ts, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, t)
	}
	return trips, total, rows.Err()
}

// GetTripsByShift retrieves a shift's trips ordered by start time.
func (r *TripRepository) GetTripsByShift(shiftID int64) ([]models.Trip, error) {
	return r.queryTrips("SELECT "+tripColumns+" FROM trips WHERE shift_id = ? ORDER BY start_ts, id", shiftID)
}

// GetTripsByDate retrieves all trips for a calendar date in a stable order.
func (r *TripRepository) GetTripsByDate(date string) ([]models.Trip, error) {
	return r.queryTrips("SELECT "+tripColumns+" FROM trips WHERE date = ? ORDER BY start_ts, employee_id, id", date)
}

// GetDrivingTripsByDate retrieves the carpool detection input: every driving
// trip for a calendar date, in a stable order.
func (r *TripRepository) GetDrivingTripsByDate(date string) ([]models.Trip, error) {
	return r.queryTrips("SELECT "+tripColumns+
		" FROM trips WHERE date = ? AND transport_mode = ? ORDER BY start_ts, employee_id, id",
		date, models.ModeDriving)
}

func (r *TripRepository) queryTrips(query string, args ...interface{}) ([]models.Trip, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}
