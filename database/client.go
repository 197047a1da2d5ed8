package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlg-/factory-girl-book-club/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseType represents the type of database to use
type DatabaseType string

const (
	DatabaseTypeSQLite   DatabaseType = "sqlite"
	DatabaseTypePostgres DatabaseType = "postgres"
)

// Config holds database connection configuration
type Config struct {
	Type DatabaseType

	// SQLite
	DatabasePath string

	// PostgreSQL
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings (both database types)
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// LogLevel is the GORM logger level
	LogLevel logger.LogLevel
}

// NewDatabaseConfig creates a new database configuration from environment variables.
// Configuration priority:
//  1. DB_TYPE=postgres → PostgreSQL (DB_HOST, DB_PASSWORD, etc.)
//  2. DB_TYPE=sqlite or DB_PATH set → file-based SQLite (default: ./data/directory.db)
//  3. Neither → in-memory SQLite
func NewDatabaseConfig() *Config {
	dbTypeStr := strings.ToLower(config.GetEnvOrDefault("DB_TYPE", ""))
	dbPathSet := os.Getenv("DB_PATH") != ""

	var dbType DatabaseType
	switch dbTypeStr {
	case "postgres", "postgresql":
		dbType = DatabaseTypePostgres
	case "sqlite", "":
		dbType = DatabaseTypeSQLite
	default:
		slog.Warn("Unknown DB_TYPE, defaulting to sqlite", "db_type", dbTypeStr)
		dbType = DatabaseTypeSQLite
	}

	if os.Getenv("DB_HOST") != "" && dbType != DatabaseTypePostgres {
		slog.Warn("DB_HOST is set but DB_TYPE is not 'postgres'. DB_HOST will be ignored.",
			"db_type", dbTypeStr,
			"db_host", os.Getenv("DB_HOST"))
	}

	cfg := &Config{
		Type:     dbType,
		LogLevel: logger.Warn,
	}

	if dbType == DatabaseTypeSQLite {
		// A single connection serializes access and keeps an in-memory database alive.
		cfg.MaxOpenConns = config.GetIntOrDefault("DB_MAX_OPEN_CONNS", 1)
		cfg.MaxIdleConns = config.GetIntOrDefault("DB_MAX_IDLE_CONNS", 1)

		hasSQLiteConfig := dbPathSet || dbTypeStr != ""
		if !hasSQLiteConfig {
			cfg.DatabasePath = ":memory:"
			slog.Info("No database configuration found, using in-memory SQLite")
		} else {
			cfg.DatabasePath = config.GetEnvOrDefault("DB_PATH", "./data/directory.db")
		}

		if cfg.DatabasePath != ":memory:" {
			dbDir := filepath.Dir(cfg.DatabasePath)
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				slog.Warn("Failed to create database directory", "path", dbDir, "error", err)
			}
		}

		slog.Info("Database configuration (SQLite)",
			"database_path", cfg.DatabasePath,
			"max_open_conns", cfg.MaxOpenConns,
			"max_idle_conns", cfg.MaxIdleConns,
		)
	} else {
		cfg.Host = config.GetEnvOrDefault("DB_HOST", "localhost")
		cfg.Port = config.GetEnvOrDefault("DB_PORT", "5432")
		cfg.Username = config.GetEnvOrDefault("DB_USERNAME", "postgres")
		cfg.Password = config.GetEnvOrDefault("DB_PASSWORD", "")
		cfg.Database = config.GetEnvOrDefault("DB_NAME", "book_club_directory")
		cfg.SSLMode = config.GetEnvOrDefault("DB_SSLMODE", "disable")

		cfg.MaxOpenConns = config.GetIntOrDefault("DB_MAX_OPEN_CONNS", 25)
		cfg.MaxIdleConns = config.GetIntOrDefault("DB_MAX_IDLE_CONNS", 5)

		slog.Info("Database configuration (PostgreSQL)",
			"host", cfg.Host,
			"port", cfg.Port,
			"database", cfg.Database,
			"username", cfg.Username,
			"sslmode", cfg.SSLMode,
			"max_open_conns", cfg.MaxOpenConns,
			"max_idle_conns", cfg.MaxIdleConns,
		)
	}

	cfg.ConnMaxLifetime = config.GetDurationOrDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	cfg.ConnMaxIdleTime = config.GetDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute)

	// An in-memory database disappears with its last connection.
	if cfg.DatabasePath == ":memory:" {
		cfg.ConnMaxLifetime = 0
		cfg.ConnMaxIdleTime = 0
	}

	return cfg
}

// DSN returns the PostgreSQL connection string, or the SQLite path
func (c *Config) DSN() string {
	if c.Type == DatabaseTypeSQLite {
		return c.DatabasePath
	}

	// net/url encodes special characters in credentials
	dsnURL := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:   c.Database,
	}
	q := dsnURL.Query()
	q.Set("sslmode", c.SSLMode)
	dsnURL.RawQuery = q.Encode()
	return dsnURL.String()
}

// Dialector returns the GORM dialector for the configured database
func (c *Config) Dialector() gorm.Dialector {
	if c.Type == DatabaseTypePostgres {
		return postgres.Open(c.DSN())
	}
	return sqlite.Open(c.DSN())
}

// GormConfig returns the GORM settings shared by every connection.
// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	}
}

// ConnectGormDB establishes a GORM connection to the database (SQLite or PostgreSQL)
func ConnectGormDB(cfg *Config) (*gorm.DB, error) {
	slog.Info("Attempting GORM database connection", "type", cfg.Type)

	gormDB, err := gorm.Open(cfg.Dialector(), GormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to open GORM %s database connection: %w", cfg.Type, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("GORM database connection established successfully", "type", cfg.Type)
	return gormDB, nil
}

// Close closes the underlying connection pool
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
