package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/ademuri/listening-insights/internal/logging"
	"github.com/ademuri/listening-insights/internal/migration"
)

// ErrNoData is returned when analytics are requested before any history has
// been imported.
var ErrNoData = errors.New("no listening history imported yet")

type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	log := logging.Component("store")
	log.Debug().Str("path", dbPath).Msg("opened database")
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	exists, err := dbExists(db)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := db.Exec(migration.Create); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

func dbExists(db *sql.DB) (bool, error) {
	// PlayEvent stands in for the whole schema.
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'PlayEvent'")
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking db existence: %w", err)
	}
	return true, nil
}

func ensureSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > migration.Version {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, migration.Version)
	}
	if version == migration.Version {
		return nil
	}

	// Create is idempotent, so older databases just pick up missing tables.
	if _, err := db.Exec(migration.Create); err != nil {
		return fmt.Errorf("upgrading schema from version %d: %w", version, err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	return nil
}

// isLocked reports whether err is SQLite refusing a write because another
// connection holds the lock.
func isLocked(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
