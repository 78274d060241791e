package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNAppliesPragmasToEveryConnection(t *testing.T) {
	db, err := sql.Open("sqlite", DSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(5)

	// Hold all connections open at once so each check runs on a distinct
	// connection rather than a recycled one.
	ctx := context.Background()
	conns := make([]*sql.Conn, 5)
	for i := range conns {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		conns[i] = conn
	}

	for i, conn := range conns {
		var fk int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equalf(t, 1, fk, "connection %d", i)

		var mode string
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equalf(t, "wal", mode, "connection %d", i)

		require.NoError(t, conn.Close())
	}
}
