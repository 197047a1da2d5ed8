package main

import (
	"fmt"
	"strconv"

	"github.com/mlg-/factory-girl-book-club/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or roll back schema migrations.

Subcommands:
  up               - Apply all pending migrations
  down-to VERSION  - Roll back every migration newer than VERSION
  version          - Print the current schema version`,
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSchema(cmd, func(s *schemaTarget) error {
				if err := migrations.Up(cmd.Context(), s.db, s.dialect); err != nil {
					return err
				}
				return s.printVersion(cmd)
			})
		},
	}

	downTo := &cobra.Command{
		Use:   "down-to <version>",
		Short: "Roll back migrations newer than version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || version < 0 {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return withSchema(cmd, func(s *schemaTarget) error {
				if err := migrations.DownTo(cmd.Context(), s.db, s.dialect, version); err != nil {
					return err
				}
				return s.printVersion(cmd)
			})
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSchema(cmd, func(s *schemaTarget) error {
				return s.printVersion(cmd)
			})
		},
	}

	migrate.AddCommand(up, downTo, version)
	return migrate
}
