package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
)

// Dialect selects SQL differences between the supported engines.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Open connects to the history database named by dsn: postgres:// or
// postgresql:// URLs use lib/pq, sqlite://<path> uses an embedded file.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := NewPostgresConnection(ctx, dsn)
		return db, Postgres, err
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err := NewSQLiteConnection(ctx, strings.TrimPrefix(dsn, "sqlite://"))
		return db, SQLite, err
	default:
		return nil, "", fmt.Errorf("unsupported HISTORY_DSN %q (use postgres://... or sqlite://path)", dsn)
	}
}

// NewPostgresConnection creates and returns a new PostgreSQL database connection.
// It also pings the database to ensure connectivity.
func NewPostgresConnection(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close the connection if ping fails
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewSQLiteConnection opens (creating if needed) the database file at path.
func NewSQLiteConnection(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; also keeps a :memory: database on one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the run history tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ts := "TIMESTAMPTZ"
	if dialect == SQLite {
		ts = "TEXT"
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS work_log_runs (
			id          TEXT PRIMARY KEY,
			mode        TEXT NOT NULL,
			days        TEXT NOT NULL,
			status      TEXT NOT NULL,
			succeeded   INTEGER NOT NULL,
			total       INTEGER NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			screenshot  TEXT NOT NULL DEFAULT '',
			started_at  ` + ts + ` NOT NULL,
			finished_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS work_log_day_outcomes (
			run_id   TEXT NOT NULL REFERENCES work_log_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			day      TEXT NOT NULL,
			outcome  TEXT NOT NULL,
			reason   TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_work_log_runs_started_at ON work_log_runs (started_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
