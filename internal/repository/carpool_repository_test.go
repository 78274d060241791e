package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldmile/fieldmile-backend-go/internal/database"
	"github.com/fieldmile/fieldmile-backend-go/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", database.DSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(5)
	require.NoError(t, database.RunMigrations(db))
	return db
}

// seedTrips inserts one driving trip per employee for the date and returns
// the trip row ids.
func seedTrips(t *testing.T, db *sql.DB, date string, employees ...int64) []int64 {
	t.Helper()
	_, err := db.Exec("INSERT INTO shifts (id, employee_id, date) VALUES (1, ?, ?)", employees[0], date)
	require.NoError(t, err)

	ids := make([]int64, 0, len(employees))
	for _, emp := range employees {
		res, err := db.Exec(`
			INSERT INTO trips (shift_id, employee_id, date, start_ts, end_ts,
				start_lat, start_lon, end_lat, end_lon, transport_mode)
			VALUES (1, ?, ?, 0, 1000, 0, 0, 0, 0, ?)
		`, emp, date, models.ModeDriving)
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestReplaceForDateLeavesNoOrphanMembers(t *testing.T) {
	db := openTestDB(t)
	repo := NewCarpoolRepository(db)
	ctx := context.Background()
	date := "2024-05-14"
	tripIDs := seedTrips(t, db, date, 1, 2, 3)

	first := []models.CarpoolGroup{{
		TripDate:     date,
		Status:       models.CarpoolStatusAutoDetected,
		ReviewNeeded: true,
		Members: []models.CarpoolMember{
			{TripID: tripIDs[0], EmployeeID: 1, Role: models.RoleUnassigned},
			{TripID: tripIDs[1], EmployeeID: 2, Role: models.RoleUnassigned},
			{TripID: tripIDs[2], EmployeeID: 3, Role: models.RoleUnassigned},
		},
	}}
	require.NoError(t, repo.ReplaceForDate(ctx, date, first))

	// Pin a few idle connections so the second replace runs on a freshly
	// opened one; the group delete must still cascade to every member row.
	var pinned []*sql.Conn
	for i := 0; i < 3; i++ {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		pinned = append(pinned, conn)
	}

	driver := int64(2)
	second := []models.CarpoolGroup{{
		TripDate:         date,
		Status:           models.CarpoolStatusAutoDetected,
		DriverEmployeeID: &driver,
		Members: []models.CarpoolMember{
			{TripID: tripIDs[0], EmployeeID: 1, Role: models.RolePassenger},
			{TripID: tripIDs[1], EmployeeID: 2, Role: models.RoleDriver},
		},
	}}
	require.NoError(t, repo.ReplaceForDate(ctx, date, second))

	for _, conn := range pinned {
		require.NoError(t, conn.Close())
	}

	var total int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM carpool_members").Scan(&total))
	assert.Equal(t, 2, total)

	var orphans int
	require.NoError(t, db.QueryRow(`
		SELECT COUNT(*) FROM carpool_members m
		LEFT JOIN carpool_groups g ON g.id = m.group_id
		WHERE g.id IS NULL
	`).Scan(&orphans))
	assert.Zero(t, orphans)

	groups, err := repo.GetGroupsByDate(date)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 2)
	assert.Equal(t, models.RolePassenger, groups[0].Members[0].Role)
	assert.Equal(t, models.RoleDriver, groups[0].Members[1].Role)
}
