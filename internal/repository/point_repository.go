package repository

import (
	"database/sql"
	"fmt"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

// PointRepository handles database operations for shifts and raw GPS points
type PointRepository struct {
	db *sql.DB
}

// NewPointRepository creates a new point repository
func NewPointRepository(db *sql.DB) *PointRepository {
	return &PointRepository{db: db}
}

// GetShiftByID retrieves a shift, or nil when it does not exist.
func (r *PointRepository) GetShiftByID(id int64) (*models.Shift, error) {
	var s models.Shift
	err := r.db.QueryRow("SELECT id, employee_id, date FROM shifts WHERE id = ?", id).
		Scan(&s.ID, &s.EmployeeID, &s.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &s, nil
}

// GetShiftsByDate retrieves all shifts for a calendar date, ordered by id.
func (r *PointRepository) GetShiftsByDate(date string) ([]models.Shift, error) {
	rows, err := r.db.Query("SELECT id, employee_id, date FROM shifts WHERE date = ? ORDER BY id", date)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var s models.Shift
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.Date); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// UpsertShift creates the shift row if it does not exist yet.
func (r *PointRepository) UpsertShift(s models.Shift) error {
	_, err := r.db.Exec(`
		INSERT INTO shifts (id, employee_id, date) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET employee_id = excluded.employee_id, date = excluded.date
	`, s.ID, s.EmployeeID, s.Date)
	if err != nil {
		return fmt.Errorf("failed to upsert shift: %w", err)
	}
	return nil
}

// InsertPoints bulk-inserts raw points for a shift inside one transaction.
func (r *PointRepository) InsertPoints(shift models.Shift, inputs []models.GpsPointInput) error {
	if len(inputs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO gps_points (shift_id, employee_id, ts, latitude, longitude, accuracy_m, speed_mps)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, in := range inputs {
		if _, err := stmt.Exec(shift.ID, shift.EmployeeID, in.Timestamp,
			in.Latitude, in.Longitude, in.AccuracyMeters, in.SpeedMps); err != nil {
			return fmt.Errorf("failed to insert point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPointsByShift retrieves a shift's points ordered by timestamp.
func (r *PointRepository) GetPointsByShift(shiftID int64) ([]models.GpsPoint, error) {
	rows, err := r.db.Query(`
		SELECT id, shift_id, employee_id, ts, latitude, longitude, accuracy_m, speed_mps
		FROM gps_points
		WHERE shift_id = ?
		ORDER BY ts, id
	`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	var points []models.GpsPoint
	for rows.Next() {
		var p models.GpsPoint
		if err := rows.Scan(&p.ID, &p.ShiftID, &p.EmployeeID, &p.Timestamp,
			&p.Latitude, &p.Longitude, &p.AccuracyMeters, &p.SpeedMps); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
