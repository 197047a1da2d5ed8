package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlg-/factory-girl-book-club/config"
	"github.com/mlg-/factory-girl-book-club/database"
	"github.com/mlg-/factory-girl-book-club/migrations"
	v1database "github.com/mlg-/factory-girl-book-club/v1/database"
	"github.com/mlg-/factory-girl-book-club/v1/handlers"
	"github.com/mlg-/factory-girl-book-club/v1/services"
	"github.com/mlg-/factory-girl-book-club/v1/views"
	"gorm.io/gorm"
)

// App is the application context built once at startup and handed to the router
type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Repository *v1database.GormRepository
	Service    *services.DirectoryService
	Handler    *handlers.DirectoryHandler
	Logger     *slog.Logger
}

// NewApp wires the repository, service, renderer and handler around an open database
func NewApp(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*App, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}

	repo := v1database.NewGormRepository(db)
	service := services.NewDirectoryService(repo, cfg.Labels)

	return &App{
		Config:     cfg,
		DB:         db,
		Repository: repo,
		Service:    service,
		Handler:    handlers.NewDirectoryHandler(service, renderer),
		Logger:     logger,
	}, nil
}

// OpenDatabase connects to the configured database and, when migrate is set,
// applies pending migrations
func OpenDatabase(ctx context.Context, dbCfg *database.Config, migrate bool) (*gorm.DB, error) {
	db, err := database.ConnectGormDB(dbCfg)
	if err != nil {
		return nil, err
	}
	if !migrate {
		return db, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := migrations.Up(ctx, sqlDB, migrations.Dialect(dbCfg.Type)); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}
