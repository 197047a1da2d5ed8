package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mlg-/factory-girl-book-club/database"
	"github.com/pressly/goose/v3"
)

// Dialect returns the goose dialect for a database type
func Dialect(dbType database.DatabaseType) goose.Dialect {
	if dbType == database.DatabaseTypePostgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

// NewProvider returns a goose provider holding every schema migration for the dialect.
// Closing the provider closes db.
func NewProvider(db *sql.DB, dialect goose.Dialect) (*goose.Provider, error) {
	provider, err := goose.NewProvider(dialect, db, nil,
		goose.WithGoMigrations(schema(dialect)...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies all pending migrations
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("Applied migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// DownTo rolls back every migration newer than version
func DownTo(ctx context.Context, db *sql.DB, dialect goose.Dialect, version int64) error {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return err
	}

	results, err := provider.DownTo(ctx, version)
	if err != nil {
		return fmt.Errorf("failed to roll back migrations to %d: %w", version, err)
	}
	for _, r := range results {
		slog.Info("Rolled back migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Version returns the current schema version
func Version(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int64, error) {
	provider, err := NewProvider(db, dialect)
	if err != nil {
		return 0, err
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
