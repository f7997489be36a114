// Package testutil opens the databases the plan store tests run against.
// Postgres is opt-in through TEST_DATABASE_URL and skips when it is unset;
// SQLite needs nothing and always runs on a temp file.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/seminar-planner/internal/repo"
)

// DSNEnv names the variable holding the Postgres test DSN.
const DSNEnv = "TEST_DATABASE_URL"

// NewPool returns a pool on the Postgres test database for PlanRepo tests.
// The seminar_plans schema is not applied here; the repo package's TestMain
// migrates once per run. Closed on test cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := requireDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a database/sql handle on the Postgres test database, the
// form goose needs to run migrations.Postgres up and down.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := requireDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// NewSQLiteDB opens an empty SQLite plan store under t.TempDir with the
// same pragmas the server uses. Callers migrate it themselves.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := repo.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("testutil.NewSQLiteDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB is NewSQLDB for TestMain, where there is no *testing.T to
// skip or fail. The caller closes the handle.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping Postgres test")
	}
	return dsn
}
