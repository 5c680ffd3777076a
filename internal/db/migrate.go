package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/pressly/goose/v3"
)

// Migrations are kept per dialect because identity columns and timestamp types differ.
//
//go:embed migrations
var migrationsFS embed.FS

var dialects = map[string]struct {
	dialect goose.Dialect
	dir     string
}{
	DriverSQLite:   {goose.DialectSQLite3, "migrations/sqlite"},
	DriverPostgres: {goose.DialectPostgres, "migrations/postgres"},
}

// newProvider builds a goose provider bound to db. Providers hold no global
// state, so tests may migrate several databases concurrently.
func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.Newf("unsupported database driver: %q", driver)
	}

	fsys, err := fs.Sub(migrationsFS, d.dir)
	if err != nil {
		return nil, errors.Wrap(err, "open migrations directory")
	}

	return goose.NewProvider(d.dialect, db, fsys)
}

// RunMigrations applies every pending migration.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	for _, r := range results {
		slog.DebugContext(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	slog.InfoContext(ctx, "migrations completed successfully", "applied", len(results))
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB, driver string) error {
	provider, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to rollback migration")
	}

	slog.InfoContext(ctx, "rolled back one migration", "version", result.Source.Version)
	return nil
}

// MigrationStatus lists every known migration with its applied state.
func MigrationStatus(ctx context.Context, db *sql.DB, driver string) ([]*goose.MigrationStatus, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}

	return provider.Status(ctx)
}
