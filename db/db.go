package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Connect(driver, dsn string, timeout time.Duration) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	// Configure connection pool
	if driver == DriverSQLite {
		// SQLite допускает только одного писателя; для ":memory:" это
		// ещё и гарантирует, что все запросы видят одну базу
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Verify the connection with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database within %v: %w (close: %v)", timeout, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// schema is written in the common subset of postgres and sqlite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS catalogs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_items (
		catalog_id TEXT NOT NULL REFERENCES catalogs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		content TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		PRIMARY KEY (catalog_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalogs_updated ON catalogs(updated_at)`,
}

// Migrate creates the tables if they don't exist. Statements run one at a
// time since lib/pq and modernc differ on multi-statement Exec.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
