package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const databaseFileName = "worktime.db"

// DB is the local session-state scope.
type DB struct {
	db *sql.DB
}

// OpenDB opens (or creates) dir/worktime.db and its schema.
func OpenDB(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}

	dsn := filepath.Join(dir, databaseFileName) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY between the
	// tracker, the alarm loop and user actions.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &DB{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (store *DB) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS session_state (
		id                INTEGER PRIMARY KEY CHECK (id = 1),
		session_id        TEXT NOT NULL DEFAULT '',
		is_working        INTEGER NOT NULL DEFAULT 0,
		is_on_lunch       INTEGER NOT NULL DEFAULT 0,
		start_time        INTEGER,
		lunch_start_time  INTEGER,
		lunch_end_time    INTEGER,
		ended_at          INTEGER,
		required_hours    REAL NOT NULL,
		pre_leave_minutes INTEGER NOT NULL,
		updated_at        INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alarms (
		name    TEXT PRIMARY KEY,
		fire_at INTEGER NOT NULL
	);
	`
	if _, err := store.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (store *DB) Close() error {
	return store.db.Close()
}
