// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
// Postgres and SQLite keep separate migration sets because their column
// types differ.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// Postgres returns the Postgres migrations rooted at their directory, ready
// to pass to goose.NewProvider.
func Postgres() fs.FS { return mustSub(postgresFS, "postgres") }

// SQLite returns the SQLite migrations rooted at their directory.
func SQLite() fs.FS { return mustSub(sqliteFS, "sqlite") }

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("migrations: " + err.Error())
	}
	return sub
}
