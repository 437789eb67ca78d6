package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/uniplan/uniplan/internal/errors"
	"github.com/uniplan/uniplan/internal/migration"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/migrations"
)

// SQLiteStore is the embedded per-device store backing every collection,
// including the pending-mutation queue.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %v", apperrors.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", apperrors.ErrStorageUnavailable, err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize default settings if not present or incomplete
	settings, err := s.GetSettings()
	if err != nil || settings.Timezone == "" {
		defaults := models.Settings{
			Timezone:             "Local",
			SyncIntervalMin:      5,
			AutoSyncEnabled:      true,
			NotificationsEnabled: true,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

// Open opens an existing database file without validating its schema
// version. The migrate command relies on this: an outdated database is
// exactly what it exists to reach.
func (s *SQLiteStore) Open() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'uniplan init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", apperrors.ErrStorageUnavailable, err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Load() error {
	if err := s.Open(); err != nil {
		return err
	}

	// Validate schema version using embedded migrations
	runner := migration.NewRunner(s.db, migrations.SQLite())
	return runner.ValidateVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runMigrations() error {
	runner := migration.NewRunner(s.db, migrations.SQLite())
	_, err := runner.ApplyMigrations(nil)
	return err
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "timezone":
			settings.Timezone = value
		case "sync_interval_min":
			n, err := strconv.Atoi(value)
			if err != nil {
				return models.Settings{}, fmt.Errorf("parsing sync_interval_min: %w", err)
			}
			settings.SyncIntervalMin = n
		case "auto_sync_enabled":
			settings.AutoSyncEnabled = value == "true"
		case "notifications_enabled":
			settings.NotificationsEnabled = value == "true"
		}
		count++
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	return settings, rows.Err()
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("timezone", settings.Timezone); err != nil {
		return err
	}
	if _, err := stmt.Exec("sync_interval_min", strconv.Itoa(settings.SyncIntervalMin)); err != nil {
		return err
	}
	if _, err := stmt.Exec("auto_sync_enabled", fmt.Sprintf("%v", settings.AutoSyncEnabled)); err != nil {
		return err
	}
	if _, err := stmt.Exec("notifications_enabled", fmt.Sprintf("%v", settings.NotificationsEnabled)); err != nil {
		return err
	}

	return tx.Commit()
}

// Run sessions

func (s *SQLiteStore) SaveRunSession(session models.RunSession) error {
	_, err := s.db.Exec(`
		INSERT INTO run_sessions (routine_id, current_step_id, started_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(routine_id) DO UPDATE SET
			current_step_id = excluded.current_step_id,
			updated_at = excluded.updated_at`,
		session.RoutineID, session.CurrentStepID,
		session.StartedAt.UTC().Format(time.RFC3339), session.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) GetRunSession(routineID string) (models.RunSession, error) {
	row := s.db.QueryRow(`
		SELECT routine_id, current_step_id, started_at, updated_at
		FROM run_sessions WHERE routine_id = ?`, routineID)

	var session models.RunSession
	var startedAt, updatedAt string

	err := row.Scan(&session.RoutineID, &session.CurrentStepID, &startedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RunSession{}, apperrors.ErrNoActiveSession
		}
		return models.RunSession{}, err
	}

	session.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return models.RunSession{}, fmt.Errorf("failed to parse started_at: %w", err)
	}
	session.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.RunSession{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return session, nil
}

func (s *SQLiteStore) ClearRunSession(routineID string) error {
	_, err := s.db.Exec("DELETE FROM run_sessions WHERE routine_id = ?", routineID)
	return err
}

// Sync cursor

func (s *SQLiteStore) GetLastSyncedAt() (*time.Time, error) {
	var lastSynced sql.NullString
	err := s.db.QueryRow("SELECT last_synced_at FROM sync_state WHERE id = 1").Scan(&lastSynced)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !lastSynced.Valid {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, lastSynced.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_synced_at: %w", err)
	}
	return &t, nil
}

func (s *SQLiteStore) SetLastSyncedAt(t time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_state (id, last_synced_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET last_synced_at = excluded.last_synced_at`,
		t.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
