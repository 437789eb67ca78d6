package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/lib/pq"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/migration"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/migrations"
)

// PostgresService talks to the managed Postgres backend. Every write is an
// upsert keyed by the client-generated id, so replaying a queued mutation
// after a crash mid-sync is a no-op rather than a duplicate.
type PostgresService struct {
	connStr string
	db      *sql.DB
}

func NewPostgresService(connStr string) *PostgresService {
	return &PostgresService{
		connStr: connStr,
	}
}

// HasEmbeddedCredentials reports whether a connection string carries a
// password inline. Those are rejected; the keyring or environment holds
// credentials instead.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil {
		return false
	}
	if u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}

func (s *PostgresService) Open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open remote database: %w", err)
	}
	s.db = db
	return nil
}

// Migrate applies the remote schema. Used by 'uniplan init' when pointed
// at a fresh database.
func (s *PostgresService) Migrate(logFn func(string)) error {
	if s.db == nil {
		if err := s.Open(); err != nil {
			return err
		}
	}
	runner := migration.NewRunner(s.db, migrations.Postgres())
	_, err := runner.ApplyMigrations(logFn)
	return err
}

func (s *PostgresService) Ping(ctx context.Context) error {
	if s.db == nil {
		if err := s.Open(); err != nil {
			return &NetworkError{Err: err}
		}
	}
	if err := s.db.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (s *PostgresService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresService) Apply(ctx context.Context, m models.Mutation) error {
	if s.db == nil {
		if err := s.Open(); err != nil {
			return &NetworkError{Err: err}
		}
	}

	var err error
	switch m.Entity {
	case constants.EntityRoutine:
		err = s.applyRoutine(ctx, m)
	case constants.EntityMood:
		err = s.applyMood(ctx, m)
	case constants.EntityPref:
		err = s.applyPref(ctx, m)
	default:
		return &ValidationError{Detail: fmt.Sprintf("unknown entity kind %q", m.Entity)}
	}

	if err != nil {
		return classify(err)
	}
	return nil
}

func (s *PostgresService) applyRoutine(ctx context.Context, m models.Mutation) error {
	if m.Op == constants.OpDelete {
		return s.requireRow(ctx, "DELETE FROM routines WHERE id = $1", m.EntityID)
	}

	var routine models.Routine
	if err := json.Unmarshal(m.Payload, &routine); err != nil {
		return &ValidationError{Detail: fmt.Sprintf("bad routine payload: %v", err)}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var deletedAt interface{}
	if routine.DeletedAt != nil {
		deletedAt = routine.DeletedAt.UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO routines (id, name, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		routine.ID, routine.Name, routine.CreatedAt.UTC(), routine.UpdatedAt.UTC(), deletedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM steps WHERE routine_id = $1", routine.ID); err != nil {
		return err
	}

	for _, step := range routine.Steps {
		var completedAt interface{}
		if step.CompletedAt != nil {
			completedAt = step.CompletedAt.UTC()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO steps (
				id, routine_id, order_idx, name, planned_duration_sec, status, completed_at, actual_duration_sec
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			step.ID, routine.ID, step.OrderIndex, step.Name,
			int64(step.PlannedDuration/time.Second), string(step.Status),
			completedAt, int64(step.ActualDuration/time.Second))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresService) applyMood(ctx context.Context, m models.Mutation) error {
	if m.Op == constants.OpDelete {
		return s.requireRow(ctx, "DELETE FROM mood_entries WHERE id = $1", m.EntityID)
	}

	var entry models.MoodEntry
	if err := json.Unmarshal(m.Payload, &entry); err != nil {
		return &ValidationError{Detail: fmt.Sprintf("bad mood payload: %v", err)}
	}

	var deletedAt interface{}
	if entry.DeletedAt != nil {
		deletedAt = entry.DeletedAt.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mood_entries (id, logged_at, mood, energy, note, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT(id) DO UPDATE SET
			logged_at = excluded.logged_at,
			mood = excluded.mood,
			energy = excluded.energy,
			note = excluded.note,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		entry.ID, entry.LoggedAt.UTC(), entry.Mood, entry.Energy, entry.Note,
		entry.CreatedAt.UTC(), entry.UpdatedAt.UTC(), deletedAt)
	return err
}

func (s *PostgresService) applyPref(ctx context.Context, m models.Mutation) error {
	if m.Op == constants.OpDelete {
		return s.requireRow(ctx, "DELETE FROM sensory_preferences WHERE id = $1", m.EntityID)
	}

	var pref models.SensoryPreference
	if err := json.Unmarshal(m.Payload, &pref); err != nil {
		return &ValidationError{Detail: fmt.Sprintf("bad preference payload: %v", err)}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sensory_preferences (id, category, label, intensity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			label = excluded.label,
			intensity = excluded.intensity,
			updated_at = excluded.updated_at`,
		pref.ID, string(pref.Category), pref.Label, pref.Intensity, pref.UpdatedAt.UTC())
	return err
}

// requireRow runs a statement that must affect at least one row; zero rows
// maps to ErrNotFound (record deleted upstream).
func (s *PostgresService) requireRow(ctx context.Context, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// classify maps driver errors onto the typed failure contract.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		return err
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23": // integrity constraint violation
			return &ValidationError{Detail: pqErr.Message}
		case "28": // invalid authorization specification
			return ErrUnauthorized
		case "08": // connection exception
			return &NetworkError{Err: err}
		}
		return &ValidationError{Detail: pqErr.Message}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &NetworkError{Err: err}
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Err: err}
	}

	// Driver errors that are not typed pq errors are overwhelmingly
	// transport-level (dial, TLS, EOF mid-handshake).
	return &NetworkError{Err: err}
}
