package main

import (
	"database/sql"
	"fmt"

	"github.com/mlg-/factory-girl-book-club/database"
	"github.com/mlg-/factory-girl-book-club/migrations"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

type schemaTarget struct {
	db      *sql.DB
	dialect goose.Dialect
}

func (s *schemaTarget) printVersion(cmd *cobra.Command) error {
	version, err := migrations.Version(cmd.Context(), s.db, s.dialect)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}

// withSchema opens the configured database for the duration of fn
func withSchema(cmd *cobra.Command, fn func(*schemaTarget) error) error {
	dbCfg := database.NewDatabaseConfig()
	gormDB, err := database.ConnectGormDB(dbCfg)
	if err != nil {
		return err
	}
	defer database.Close(gormDB)

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return fn(&schemaTarget{db: sqlDB, dialect: migrations.Dialect(dbCfg.Type)})
}
