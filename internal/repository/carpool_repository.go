package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldmile/fieldmile-backend-go/internal/database"
	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

// CarpoolRepository persists carpool detection output. A date's groups are
// always replaced wholesale; incremental updates would let stale groups leak
// across recomputations.
type CarpoolRepository struct {
	db *sql.DB
}

// NewCarpoolRepository creates a new carpool repository
func NewCarpoolRepository(db *sql.DB) *CarpoolRepository {
	return &CarpoolRepository{db: db}
}

// ReplaceForDate deletes all carpool groups for the date (members cascade)
// and inserts the newly computed set in one transaction.
func (r *CarpoolRepository) ReplaceForDate(ctx context.Context, date string, groups []models.CarpoolGroup) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM carpool_groups WHERE trip_date = ?", date); err != nil {
			return fmt.Errorf("failed to clear carpool groups: %w", err)
		}

		groupStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO carpool_groups (trip_date, status, driver_employee_id, review_needed)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare group insert: %w", err)
		}
		defer groupStmt.Close()

		memberStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO carpool_members (group_id, trip_id, employee_id, role)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare member insert: %w", err)
		}
		defer memberStmt.Close()

		for _, g := range groups {
			var driverID interface{}
			if g.DriverEmployeeID != nil {
				driverID = *g.DriverEmployeeID
			}
			res, err := groupStmt.ExecContext(ctx, g.TripDate, g.Status, driverID, g.ReviewNeeded)
			if err != nil {
				return fmt.Errorf("failed to insert carpool group: %w", err)
			}
			groupID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read group id: %w", err)
			}
			for _, m := range g.Members {
				if _, err := memberStmt.ExecContext(ctx, groupID, m.TripID, m.EmployeeID, m.Role); err != nil {
					return fmt.Errorf("failed to insert carpool member: %w", err)
				}
			}
		}
		return nil
	})
}

// GetGroupsByDate retrieves a date's carpool groups with their members.
func (r *CarpoolRepository) GetGroupsByDate(date string) ([]models.CarpoolGroup, error) {
	rows, err := r.db.Query(`
		SELECT id, trip_date, status, driver_employee_id, review_needed
		FROM carpool_groups
		WHERE trip_date = ?
		ORDER BY id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query carpool groups: %w", err)
	}
	defer rows.Close()

	var groups []models.CarpoolGroup
	for rows.Next() {
		var g models.CarpoolGroup
		var driverID sql.NullInt64
		if err := rows.Scan(&g.ID, &g.TripDate, &g.Status, &driverID, &g.ReviewNeeded); err != nil {
			return nil, fmt.Errorf("failed to scan carpool group: %w", err)
		}
		if driverID.Valid {
			g.DriverEmployeeID = &driverID.Int64
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		members, err := r.getMembers(groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

func (r *CarpoolRepository) getMembers(groupID int64) ([]models.CarpoolMember, error) {
	rows, err := r.db.Query(`
		SELECT id, group_id, trip_id, employee_id, role
		FROM carpool_members
		WHERE group_id = ?
		ORDER BY employee_id, trip_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query carpool members: %w", err)
	}
	defer rows.Close()

	var members []models.CarpoolMember
	for rows.Next() {
		var m models.CarpoolMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.TripID, &m.EmployeeID, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan carpool member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
