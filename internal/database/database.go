// Package database provides database connection management and utilities.
// Varkeep embeds its metadata store as a local libSQL file; secret values
// never land here, only record metadata and vault references.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Connect opens the libSQL database at the given path. The path should be a
// file URI, e.g. "file:/path/to/varkeep.db". A single connection is used so
// connection-level PRAGMAs apply to every statement.
func Connect(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Some PRAGMAs return rows so we use QueryRow.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
