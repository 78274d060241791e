package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

// VehicleRepository handles database operations for vehicle ownership
// periods. Periods are external input to this core; only inserts and reads
// are needed here.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Insert stores one vehicle period.
func (r *VehicleRepository) Insert(p models.VehiclePeriod) (int64, error) {
	var endedAt interface{}
	if p.EndedAt != nil {
		endedAt = *p.EndedAt
	}
	res, err := r.db.Exec(`
		INSERT INTO vehicle_periods (employee_id, type, started_at, ended_at)
		VALUES (?, ?, ?, ?)
	`, p.EmployeeID, p.Type, p.StartedAt, endedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert vehicle period: %w", err)
	}
	return res.LastInsertId()
}

// GetPeriods retrieves vehicle periods with optional filtering.
func (r *VehicleRepository) GetPeriods(filter models.VehiclePeriodFilter) ([]models.VehiclePeriod, error) {
	query := "SELECT id, employee_id, type, started_at, ended_at FROM vehicle_periods"

	var conditions []string
	var args []interface{}
	if filter.EmployeeID > 0 {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY employee_id, started_at"

	return r.queryPeriods(query, args...)
}

// GetActiveInWindow retrieves every period overlapping the [dayStart,
// dayEnd) unix-second window.
func (r *VehicleRepository) GetActiveInWindow(dayStart, dayEnd int64) ([]models.VehiclePeriod, error) {
	return r.queryPeriods(`
		SELECT id, employee_id, type, started_at, ended_at
		FROM vehicle_periods
		WHERE started_at < ? AND (ended_at IS NULL OR ended_at > ?)
		ORDER BY employee_id, started_at
	`, dayEnd, dayStart)
}

func (r *VehicleRepository) queryPeriods(query string, args ...interface{}) ([]models.VehiclePeriod, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle periods: %w", err)
	}
	defer rows.Close()

	var periods []models.VehiclePeriod
	for rows.Next() {
		var p models.VehiclePeriod
		var endedAt sql.NullInt64
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Type, &p.StartedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle period: %w", err)
		}
		if endedAt.Valid {
			p.EndedAt = &endedAt.Int64
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}
