package database

import (
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

var dbEnvKeys = []string{
	"DB_TYPE", "DB_PATH", "DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_NAME",
	"DB_SSLMODE", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
}

func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, key := range dbEnvKeys {
		t.Setenv(key, "")
	}
}

func TestNewDatabaseConfig_InMemory(t *testing.T) {
	clearDBEnv(t)

	cfg := NewDatabaseConfig()

	assert.Equal(t, DatabaseTypeSQLite, cfg.Type)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, 1, cfg.MaxOpenConns)
	assert.Equal(t, 1, cfg.MaxIdleConns)
	assert.Zero(t, cfg.ConnMaxLifetime)
	assert.Zero(t, cfg.ConnMaxIdleTime)

	db, err := ConnectGormDB(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.NoError(t, Close(db))
}

func TestNewDatabaseConfig_SQLiteFile(t *testing.T) {
	clearDBEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "directory.db")
	t.Setenv("DB_PATH", path)
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "bogus")

	cfg := NewDatabaseConfig()

	assert.Equal(t, DatabaseTypeSQLite, cfg.Type)
	assert.Equal(t, path, cfg.DatabasePath)
	assert.Equal(t, path, cfg.DSN())
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 15*time.Minute, cfg.ConnMaxIdleTime)

	db, err := ConnectGormDB(cfg)
	require.NoError(t, err)
	assert.NoError(t, Close(db))
	assert.FileExists(t, path)
}

func TestNewDatabaseConfig_Postgres(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_TYPE", "postgresql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USERNAME", "reader")
	t.Setenv("DB_PASSWORD", "p@ss:w/rd")
	t.Setenv("DB_NAME", "clubs")
	t.Setenv("DB_MAX_OPEN_CONNS", "10")

	cfg := NewDatabaseConfig()

	assert.Equal(t, DatabaseTypePostgres, cfg.Type)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, "disable", cfg.SSLMode)

	parsed, err := url.Parse(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal:6543", parsed.Host)
	assert.Equal(t, "/clubs", parsed.Path)
	password, _ := parsed.User.Password()
	assert.Equal(t, "p@ss:w/rd", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}

func TestNewDatabaseConfig_UnknownTypeFallsBackToSQLite(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_TYPE", "oracle")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "fallback.db"))

	cfg := NewDatabaseConfig()
	assert.Equal(t, DatabaseTypeSQLite, cfg.Type)
	assert.NotEqual(t, ":memory:", cfg.DatabasePath)
}

func TestGormConfig_TranslatesErrors(t *testing.T) {
	cfg := GormConfig(logger.Silent)
	assert.True(t, cfg.TranslateError)
	assert.NotNil(t, cfg.Logger)
}
