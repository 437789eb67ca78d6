package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

func (s *SQLiteStore) AddRoutine(routine models.Routine) error {
	return s.UpdateRoutine(routine)
}

func (s *SQLiteStore) UpdateRoutine(routine models.Routine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var deletedAt sql.NullString
	if routine.DeletedAt != nil {
		deletedAt = sql.NullString{String: routine.DeletedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO routines (id, name, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		routine.ID, routine.Name,
		routine.CreatedAt.UTC().Format(time.RFC3339), routine.UpdatedAt.UTC().Format(time.RFC3339),
		deletedAt)
	if err != nil {
		return err
	}

	// Replace the step set wholesale so removed steps do not linger
	if _, err := tx.Exec("DELETE FROM steps WHERE routine_id = ?", routine.ID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO steps (
			id, routine_id, order_idx, name, planned_duration_sec, status, completed_at, actual_duration_sec
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, step := range routine.Steps {
		var completedAt sql.NullString
		if step.CompletedAt != nil {
			completedAt = sql.NullString{String: step.CompletedAt.UTC().Format(time.RFC3339), Valid: true}
		}
		_, err = stmt.Exec(
			step.ID, routine.ID, step.OrderIndex, step.Name,
			int64(step.PlannedDuration/time.Second), string(step.Status),
			completedAt, int64(step.ActualDuration/time.Second),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetRoutine(id string) (models.Routine, error) {
	row := s.db.QueryRow(`
		SELECT id, name, created_at, updated_at, deleted_at
		FROM routines WHERE id = ? AND deleted_at IS NULL`, id)

	routine, err := scanRoutine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Routine{}, fmt.Errorf("routine with id %s not found", id)
		}
		return models.Routine{}, err
	}

	routine.Steps, err = s.GetStepsForRoutine(routine.ID)
	if err != nil {
		return models.Routine{}, err
	}

	return routine, nil
}

func (s *SQLiteStore) GetRoutineByName(name string) (models.Routine, error) {
	row := s.db.QueryRow(`
		SELECT id, name, created_at, updated_at, deleted_at
		FROM routines WHERE name = ? AND deleted_at IS NULL`, name)

	routine, err := scanRoutine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Routine{}, fmt.Errorf("routine %q not found", name)
		}
		return models.Routine{}, err
	}

	routine.Steps, err = s.GetStepsForRoutine(routine.ID)
	if err != nil {
		return models.Routine{}, err
	}

	return routine, nil
}

func (s *SQLiteStore) GetAllRoutines(includeDeleted bool) ([]models.Routine, error) {
	query := "SELECT id, name, created_at, updated_at, deleted_at FROM routines"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, routine)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range routines {
		routines[i].Steps, err = s.GetStepsForRoutine(routines[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return routines, nil
}

func (s *SQLiteStore) DeleteRoutine(id string) error {
	// Soft delete: set deleted_at timestamp instead of removing the record
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM routines WHERE id = ?", id).Scan(&deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("routine with id %s not found", id)
		}
		return fmt.Errorf("failed to check routine existence: %w", err)
	}

	if deletedAt.Valid {
		return fmt.Errorf("routine with id %s is already deleted", id)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE routines SET deleted_at = ? WHERE id = ?", now, id)
	return err
}

func (s *SQLiteStore) RestoreRoutine(id string) error {
	result, err := s.db.Exec(`
		UPDATE routines SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("routine not found or not deleted")
	}

	return nil
}

func (s *SQLiteStore) GetStepsForRoutine(routineID string) ([]models.Step, error) {
	rows, err := s.db.Query(`
		SELECT id, routine_id, order_idx, name, planned_duration_sec, status, completed_at, actual_duration_sec
		FROM steps WHERE routine_id = ? ORDER BY order_idx`, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []models.Step
	for rows.Next() {
		var step models.Step
		var plannedSec, actualSec int64
		var status string
		var completedAt sql.NullString

		err := rows.Scan(
			&step.ID, &step.RoutineID, &step.OrderIndex, &step.Name,
			&plannedSec, &status, &completedAt, &actualSec,
		)
		if err != nil {
			return nil, err
		}

		step.PlannedDuration = time.Duration(plannedSec) * time.Second
		step.ActualDuration = time.Duration(actualSec) * time.Second
		step.Status = constants.StepStatus(status)

		if completedAt.Valid {
			t, err := time.Parse(time.RFC3339, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse completed_at for step %s: %w", step.ID, err)
			}
			step.CompletedAt = &t
		}

		steps = append(steps, step)
	}

	return steps, rows.Err()
}

// UpdateStep writes a single step in place. Used by the execution engine's
// timer flush so a tick does not rewrite the whole routine.
func (s *SQLiteStore) UpdateStep(step models.Step) error {
	var completedAt sql.NullString
	if step.CompletedAt != nil {
		completedAt = sql.NullString{String: step.CompletedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	result, err := s.db.Exec(`
		UPDATE steps SET
			order_idx = ?, name = ?, planned_duration_sec = ?, status = ?,
			completed_at = ?, actual_duration_sec = ?
		WHERE id = ?`,
		step.OrderIndex, step.Name, int64(step.PlannedDuration/time.Second), string(step.Status),
		completedAt, int64(step.ActualDuration/time.Second), step.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("step with id %s not found", step.ID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoutine(row rowScanner) (models.Routine, error) {
	var routine models.Routine
	var createdAt, updatedAt string
	var deletedAt sql.NullString

	if err := row.Scan(&routine.ID, &routine.Name, &createdAt, &updatedAt, &deletedAt); err != nil {
		return models.Routine{}, err
	}

	var err error
	routine.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Routine{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	routine.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Routine{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.Routine{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
		routine.DeletedAt = &t
	}

	return routine, nil
}
