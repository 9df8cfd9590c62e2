package storage

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// latestVersion is the schema version RunMigrations brings a database to.
const latestVersion = 2

// RunMigrations executes the database schema and any necessary migrations.
// This function is idempotent and safe to run multiple times.
func RunMigrations(db *sqlx.DB) error {
	// Execute the embedded schema
	if _, err := db.Exec(schemaSQL); err != nil {
		return err
	}

	version, err := getSchemaVersion(db)
	if err != nil {
		return err
	}

	// Migration 2: cache the frontmatter doctype next to the title.
	if version < 2 {
		var colExists int
		err = db.Get(&colExists, `SELECT COUNT(*) FROM pragma_table_info('Document') WHERE name = 'doctype'`)
		if err != nil {
			return err
		}
		if colExists == 0 {
			if _, err := db.Exec(`ALTER TABLE Document ADD COLUMN doctype TEXT NOT NULL DEFAULT ''`); err != nil {
				return fmt.Errorf("adding doctype column: %w", err)
			}
		}
	}

	return setSchemaVersion(db, latestVersion)
}

func getSchemaVersion(db *sqlx.DB) (int, error) {
	var values []string
	if err := db.Select(&values, `SELECT value FROM Setting WHERE key = 'schema_version'`); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return strconv.Atoi(values[0])
}

func setSchemaVersion(db *sqlx.DB, version int) error {
	_, err := db.Exec(`INSERT INTO Setting (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.Itoa(version))
	return err
}
