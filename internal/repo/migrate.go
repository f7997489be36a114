package repo

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/seminar-planner/migrations"
)

// MigratePostgres applies all pending Postgres migrations.
// goose needs a database/sql handle; use stdlib.OpenDBFromPool for a pgx pool.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, goose.DialectPostgres, db, migrations.Postgres())
}

// MigrateSQLite applies all pending SQLite migrations.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, goose.DialectSQLite3, db, migrations.SQLite())
}

func migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("repo.migrate: create provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("repo.migrate: up: %w", err)
	}
	return nil
}
