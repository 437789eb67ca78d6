package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/models"
)

func (s *SQLiteStore) AddMoodEntry(entry models.MoodEntry) error {
	return s.UpdateMoodEntry(entry)
}

func (s *SQLiteStore) UpdateMoodEntry(entry models.MoodEntry) error {
	var deletedAt sql.NullString
	if entry.DeletedAt != nil {
		deletedAt = sql.NullString{String: entry.DeletedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO mood_entries (id, logged_at, mood, energy, note, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			logged_at = excluded.logged_at,
			mood = excluded.mood,
			energy = excluded.energy,
			note = excluded.note,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		entry.ID, entry.LoggedAt.UTC().Format(time.RFC3339), entry.Mood, entry.Energy, entry.Note,
		entry.CreatedAt.UTC().Format(time.RFC3339), entry.UpdatedAt.UTC().Format(time.RFC3339), deletedAt)

	return err
}

func (s *SQLiteStore) GetMoodEntry(id string) (models.MoodEntry, error) {
	row := s.db.QueryRow(`
		SELECT id, logged_at, mood, energy, note, created_at, updated_at, deleted_at
		FROM mood_entries WHERE id = ? AND deleted_at IS NULL`, id)

	entry, err := scanMoodEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoodEntry{}, fmt.Errorf("mood entry with id %s not found", id)
		}
		return models.MoodEntry{}, err
	}
	return entry, nil
}

func (s *SQLiteStore) GetMoodEntriesForRange(startDay, endDay string, includeDeleted bool) ([]models.MoodEntry, error) {
	query := `
		SELECT id, logged_at, mood, energy, note, created_at, updated_at, deleted_at
		FROM mood_entries WHERE date(logged_at) >= ? AND date(logged_at) <= ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY logged_at DESC"

	rows, err := s.db.Query(query, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.MoodEntry
	for rows.Next() {
		entry, err := scanMoodEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (s *SQLiteStore) DeleteMoodEntry(id string) error {
	result, err := s.db.Exec(`
		UPDATE mood_entries SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("mood entry not found or already deleted")
	}

	return nil
}

func (s *SQLiteStore) RestoreMoodEntry(id string) error {
	result, err := s.db.Exec(`
		UPDATE mood_entries SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("mood entry not found or not deleted")
	}

	return nil
}

// Sensory preferences

func (s *SQLiteStore) SavePreference(pref models.SensoryPreference) error {
	_, err := s.db.Exec(`
		INSERT INTO sensory_preferences (id, category, label, intensity, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category, label) DO UPDATE SET
			intensity = excluded.intensity,
			updated_at = excluded.updated_at`,
		pref.ID, string(pref.Category), pref.Label, pref.Intensity,
		pref.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) GetAllPreferences() ([]models.SensoryPreference, error) {
	rows, err := s.db.Query(`
		SELECT id, category, label, intensity, updated_at
		FROM sensory_preferences ORDER BY category, label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []models.SensoryPreference
	for rows.Next() {
		var pref models.SensoryPreference
		var category, updatedAt string

		if err := rows.Scan(&pref.ID, &category, &pref.Label, &pref.Intensity, &updatedAt); err != nil {
			return nil, err
		}

		pref.Category = models.PrefCategory(category)
		pref.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for preference %s: %w", pref.ID, err)
		}

		prefs = append(prefs, pref)
	}

	return prefs, rows.Err()
}

func (s *SQLiteStore) DeletePreference(id string) error {
	result, err := s.db.Exec("DELETE FROM sensory_preferences WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("preference with id %s not found", id)
	}

	return nil
}

func scanMoodEntry(row rowScanner) (models.MoodEntry, error) {
	var entry models.MoodEntry
	var loggedAt, createdAt, updatedAt string
	var deletedAt sql.NullString

	if err := row.Scan(&entry.ID, &loggedAt, &entry.Mood, &entry.Energy, &entry.Note,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return models.MoodEntry{}, err
	}

	var err error
	entry.LoggedAt, err = time.Parse(time.RFC3339, loggedAt)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse logged_at: %w", err)
	}
	entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.MoodEntry{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
		entry.DeletedAt = &t
	}

	return entry, nil
}
