package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsUpDownStatus(t *testing.T) {
	ctx := context.Background()
	database, err := Init(ctx, DriverSQLite, filepath.Join(t.TempDir(), "m.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer func() { _ = Close(database) }()

	require.NoError(t, RunMigrations(ctx, database.DB, DriverSQLite))

	var statuses int
	require.NoError(t, database.Get(&statuses, "SELECT COUNT(*) FROM case_statuses"))
	assert.Equal(t, 3, statuses)

	status, err := MigrationStatus(ctx, database.DB, DriverSQLite)
	require.NoError(t, err)
	require.Len(t, status, 2)
	for _, s := range status {
		assert.Equal(t, goose.StateApplied, s.State)
	}

	require.NoError(t, MigrateDown(ctx, database.DB, DriverSQLite))
	status, err = MigrationStatus(ctx, database.DB, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, goose.StatePending, status[1].State)

	// Running again only re-applies what was rolled back
	require.NoError(t, RunMigrations(ctx, database.DB, DriverSQLite))
	require.NoError(t, database.Get(&statuses, "SELECT COUNT(*) FROM case_statuses"))
	assert.Equal(t, 3, statuses)
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	_, err := Init(context.Background(), "oracle", "x")
	assert.Error(t, err)
}
