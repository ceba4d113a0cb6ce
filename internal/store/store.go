package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Store is the durable collection of events that failed delivery. It is
// backed by database/sql so the same queries run against SQLite (the
// default, DSN is a file path) and Postgres.
type Store struct {
	db *sql.DB
}

const schemaSQLite = `
	CREATE TABLE IF NOT EXISTS failed_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_data TEXT NOT NULL,
		failure_reason TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		retry_count INTEGER NOT NULL DEFAULT 0
	)`

const schemaPostgres = `
	CREATE TABLE IF NOT EXISTS failed_events (
		id BIGSERIAL PRIMARY KEY,
		event_data TEXT NOT NULL,
		failure_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		retry_count INTEGER NOT NULL DEFAULT 0
	)`

// Open connects to the failure store and creates the failed_events table if
// it does not exist yet.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var driverName, schema string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, fmt.Errorf("ensuring sqlite directory: %w", err)
		}
		driverName, schema = "sqlite", schemaSQLite
	case "postgres", "pgx":
		driverName, schema = "pgx", schemaPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driverName == "sqlite" {
		// One writer at a time; also keeps :memory: stores on a single
		// connection instead of one fresh database per pooled conn.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating failed_events table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSQLiteDir creates the parent directory of a file-backed DSN so a
// fresh install can open a store under e.g. ~/.local/share/matchfeed/.
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimSpace(dsn)
	if path == "" || path == ":memory:" {
		return nil
	}
	path = strings.TrimPrefix(path, "file:")
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
