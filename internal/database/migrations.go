package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migration represents one versioned schema change. Migrations are embedded
// rather than shipped as files so a bare binary can bootstrap its store.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQL: `
CREATE TABLE IF NOT EXISTS shifts (
	id INTEGER PRIMARY KEY,
	employee_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts(date);

CREATE TABLE IF NOT EXISTS gps_points (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	shift_id INTEGER NOT NULL REFERENCES shifts(id),
	employee_id INTEGER NOT NULL,
	ts INTEGER NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	accuracy_m REAL NOT NULL DEFAULT 0,
	speed_mps REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_gps_points_shift_ts ON gps_points(shift_id, ts);

CREATE TABLE IF NOT EXISTS stationary_clusters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	shift_id INTEGER NOT NULL REFERENCES shifts(id),
	employee_id INTEGER NOT NULL,
	start_ts INTEGER NOT NULL,
	end_ts INTEGER NOT NULL,
	centroid_lat REAL NOT NULL,
	centroid_lon REAL NOT NULL,
	point_ids_json TEXT NOT NULL DEFAULT '[]',
	point_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_clusters_shift ON stationary_clusters(shift_id);

CREATE TABLE IF NOT EXISTS trips (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	shift_id INTEGER NOT NULL REFERENCES shifts(id),
	employee_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	start_ts INTEGER NOT NULL,
	end_ts INTEGER NOT NULL,
	start_cluster_id INTEGER REFERENCES stationary_clusters(id),
	end_cluster_id INTEGER REFERENCES stationary_clusters(id),
	start_lat REAL NOT NULL,
	start_lon REAL NOT NULL,
	end_lat REAL NOT NULL,
	end_lon REAL NOT NULL,
	point_ids_json TEXT NOT NULL DEFAULT '[]',
	transport_mode TEXT NOT NULL,
	distance_meters REAL NOT NULL DEFAULT 0,
	avg_speed_mps REAL NOT NULL DEFAULT 0,
	max_speed_mps REAL NOT NULL DEFAULT 0,
	classification TEXT NOT NULL DEFAULT 'business',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_trips_shift ON trips(shift_id);
CREATE INDEX IF NOT EXISTS idx_trips_date_mode ON trips(date, transport_mode);

CREATE TABLE IF NOT EXISTS carpool_groups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trip_date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'auto_detected',
	driver_employee_id INTEGER,
	review_needed INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_carpool_groups_date ON carpool_groups(trip_date);

CREATE TABLE IF NOT EXISTS carpool_members (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	group_id INTEGER NOT NULL REFERENCES carpool_groups(id) ON DELETE CASCADE,
	trip_id INTEGER NOT NULL REFERENCES trips(id),
	employee_id INTEGER NOT NULL,
	role TEXT NOT NULL DEFAULT 'unassigned',
	UNIQUE(group_id, trip_id)
);

CREATE TABLE IF NOT EXISTS vehicle_periods (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL,
	type TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	ended_at INTEGER,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_vehicle_periods_employee ON vehicle_periods(employee_id);
`,
	},
}

// RunMigrations applies all pending migrations in version order, tracking
// applied versions in a migrations table.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		logrus.Infof("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return err
	}
	return tx.Commit()
}
