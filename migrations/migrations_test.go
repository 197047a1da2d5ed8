package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mlg-/factory-girl-book-club/database"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// keep the in-memory database on a single connection
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func insertMember(ctx context.Context, db *sql.DB, email string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO members (first_name, last_name, email) VALUES (?, ?, ?)`,
		"Emily", "Dickinson", email)
	return err
}

func TestDialect(t *testing.T) {
	assert.Equal(t, goose.DialectPostgres, Dialect(database.DatabaseTypePostgres))
	assert.Equal(t, goose.DialectSQLite3, Dialect(database.DatabaseTypeSQLite))
}

func TestUp_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, Up(ctx, db, goose.DialectSQLite3))

	version, err := Version(ctx, db, goose.DialectSQLite3)
	require.NoError(t, err)
	assert.Equal(t, VersionCreatePokemons, version)

	for _, table := range []string{"book_clubs", "members", "pokemasters", "pokemons"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	// timestamps were dropped from book_clubs
	_, err = db.ExecContext(ctx, `SELECT created_at FROM book_clubs`)
	assert.Error(t, err)

	// leader defaults to false
	require.NoError(t, insertMember(ctx, db, "emily@example.com"))
	var leader bool
	require.NoError(t, db.QueryRowContext(ctx, `SELECT leader FROM members WHERE email = ?`, "emily@example.com").Scan(&leader))
	assert.False(t, leader)
}

func TestUp_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	require.NoError(t, Up(ctx, db, goose.DialectSQLite3))
	require.NoError(t, Up(ctx, db, goose.DialectSQLite3))

	version, err := Version(ctx, db, goose.DialectSQLite3)
	require.NoError(t, err)
	assert.Equal(t, VersionCreatePokemons, version)
}

func TestEmailUniquenessToggle(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	require.NoError(t, Up(ctx, db, goose.DialectSQLite3))

	require.NoError(t, insertMember(ctx, db, "poet@example.com"))
	assert.Error(t, insertMember(ctx, db, "poet@example.com"), "unique index should reject duplicate email")

	require.NoError(t, DownTo(ctx, db, goose.DialectSQLite3, VersionCreateMembers))
	version, err := Version(ctx, db, goose.DialectSQLite3)
	require.NoError(t, err)
	assert.Equal(t, VersionCreateMembers, version)

	assert.NoError(t, insertMember(ctx, db, "poet@example.com"), "duplicates allowed without the unique index")

	// the unique index cannot be rebuilt over duplicate rows
	_, err = db.ExecContext(ctx, `DELETE FROM members WHERE email = ?`, "poet@example.com")
	require.NoError(t, err)
	require.NoError(t, Up(ctx, db, goose.DialectSQLite3))

	require.NoError(t, insertMember(ctx, db, "poet@example.com"))
	assert.Error(t, insertMember(ctx, db, "poet@example.com"))
}

func TestTypesFor(t *testing.T) {
	pg := typesFor(goose.DialectPostgres)
	assert.Equal(t, "BIGSERIAL PRIMARY KEY", pg.id)
	assert.Equal(t, "TIMESTAMPTZ", pg.timestamp)

	lite := typesFor(goose.DialectSQLite3)
	assert.Contains(t, lite.id, "AUTOINCREMENT")
}

func TestSchema_VersionsAreOrdered(t *testing.T) {
	migrations := schema(goose.DialectSQLite3)
	require.Len(t, migrations, 6)
	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version)
	}
}
