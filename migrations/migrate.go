package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedMigrations embed.FS

// Migrate applies the embedded schema migrations for the given engine,
// "sqlite" or "postgres". Each engine carries its own migration directory
// since the DDL dialects differ.
func Migrate(db *sql.DB, engine string) error {
	goose.SetBaseFS(embedMigrations)

	dialect, dir := "sqlite3", "sqlite"
	if engine == "postgres" {
		dialect, dir = "pgx", "postgres"
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
