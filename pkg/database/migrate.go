package database

import (
	"database/sql"
	"fmt"
	"os"
)

const defaultSchemaPath = "docs/schema.sql"

// Migrate applies the schema file wholesale. Every statement in it is
// IF NOT EXISTS, so re-running against an existing database is a no-op.
func Migrate(db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		schemaPath = defaultSchemaPath
	}

	b, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", schemaPath, err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema %s: %w", schemaPath, err)
	}
	return nil
}
