package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mlg-/factory-girl-book-club/database"
	"github.com/mlg-/factory-girl-book-club/monitoring"
	"github.com/mlg-/factory-girl-book-club/server"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

func newServeCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the directory HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownMetrics, err := monitoring.Setup(ctx, monitoring.DefaultConfig("book-club-directory"))
			if err != nil {
				return fmt.Errorf("failed to set up metrics: %w", err)
			}
			defer func() {
				if err := shutdownMetrics(context.Background()); err != nil {
					slog.Warn("Failed to shut down metrics", "error", err)
				}
			}()

			dbCfg := database.NewDatabaseConfig()
			if state.cfg.LogLevel <= slog.LevelDebug {
				dbCfg.LogLevel = logger.Info
			}
			db, err := server.OpenDatabase(ctx, dbCfg, state.cfg.AutoMigrate)
			if err != nil {
				return err
			}
			defer func() {
				if err := database.Close(db); err != nil {
					slog.Error("Failed to close database", "error", err)
				}
			}()

			app, err := server.NewApp(state.cfg, db, state.logger)
			if err != nil {
				return err
			}
			return server.Run(ctx, app)
		},
	}
}
