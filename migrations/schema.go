package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

// Schema versions
const (
	VersionCreateBookClubs        int64 = 1
	VersionCreateMembers          int64 = 2
	VersionUniqueMemberEmails     int64 = 3
	VersionDropBookClubTimestamps int64 = 4
	VersionCreatePokemasters      int64 = 5
	VersionCreatePokemons         int64 = 6
)

type columnTypes struct {
	id        string
	reference string
	timestamp string
}

func typesFor(dialect goose.Dialect) columnTypes {
	if dialect == goose.DialectPostgres {
		return columnTypes{
			id:        "BIGSERIAL PRIMARY KEY",
			reference: "BIGINT",
			timestamp: "TIMESTAMPTZ",
		}
	}
	return columnTypes{
		id:        "INTEGER PRIMARY KEY AUTOINCREMENT",
		reference: "INTEGER",
		timestamp: "DATETIME",
	}
}

func schema(dialect goose.Dialect) []*goose.Migration {
	t := typesFor(dialect)

	return []*goose.Migration{
		migration(VersionCreateBookClubs,
			exec(`
			CREATE TABLE IF NOT EXISTS book_clubs (
				id `+t.id+`,
				name VARCHAR(255) NOT NULL,
				location VARCHAR(255),
				created_at `+t.timestamp+`,
				updated_at `+t.timestamp+`
			);`),
			exec(`DROP TABLE IF EXISTS book_clubs;`),
		),
		migration(VersionCreateMembers,
			exec(`
			CREATE TABLE IF NOT EXISTS members (
				id `+t.id+`,
				first_name VARCHAR(255) NOT NULL,
				last_name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL,
				bio TEXT,
				favorite_book VARCHAR(255),
				book_club_id `+t.reference+`,
				leader BOOLEAN NOT NULL DEFAULT FALSE
			);`,
				`CREATE INDEX IF NOT EXISTS idx_members_book_club_id ON members(book_club_id);`),
			exec(`DROP TABLE IF EXISTS members;`),
		),
		migration(VersionUniqueMemberEmails,
			exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_members_email ON members(email);`),
			exec(`DROP INDEX IF EXISTS idx_members_email;`),
		),
		migration(VersionDropBookClubTimestamps,
			exec(
				`ALTER TABLE book_clubs DROP COLUMN created_at;`,
				`ALTER TABLE book_clubs DROP COLUMN updated_at;`),
			exec(
				`ALTER TABLE book_clubs ADD COLUMN created_at `+t.timestamp+`;`,
				`ALTER TABLE book_clubs ADD COLUMN updated_at `+t.timestamp+`;`),
		),
		migration(VersionCreatePokemasters,
			exec(`
			CREATE TABLE IF NOT EXISTS pokemasters (
				id `+t.id+`,
				name VARCHAR(255) NOT NULL,
				age INTEGER,
				email VARCHAR(255)
			);`),
			exec(`DROP TABLE IF EXISTS pokemasters;`),
		),
		migration(VersionCreatePokemons,
			exec(`
			CREATE TABLE IF NOT EXISTS pokemons (
				id `+t.id+`,
				name VARCHAR(255) NOT NULL,
				ability VARCHAR(255),
				poketype VARCHAR(255),
				strength INTEGER,
				age INTEGER,
				pokemaster_id `+t.reference+`
			);`,
				`CREATE INDEX IF NOT EXISTS idx_pokemons_pokemaster_id ON pokemons(pokemaster_id);`),
			exec(`DROP TABLE IF EXISTS pokemons;`),
		),
	}
}

func migration(version int64, up, down func(context.Context, *sql.Tx) error) *goose.Migration {
	return goose.NewGoMigration(version, &goose.GoFunc{RunTx: up}, &goose.GoFunc{RunTx: down})
}

func exec(statements ...string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
