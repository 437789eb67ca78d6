package storage

import (
	"testing"
	"time"

	"github.com/uniplan/uniplan/internal/models"
)

func TestRoutineSoftDelete(t *testing.T) {
	store := setupTestStore(t)

	routine := testRoutine("r1", "Morning", 2)
	if err := store.AddRoutine(routine); err != nil {
		t.Fatalf("failed to add routine: %v", err)
	}

	if err := store.DeleteRoutine("r1"); err != nil {
		t.Fatalf("failed to delete routine: %v", err)
	}

	// Hidden from the default listing
	routines, err := store.GetAllRoutines(false)
	if err != nil {
		t.Fatalf("failed to list routines: %v", err)
	}
	if len(routines) != 0 {
		t.Errorf("expected deleted routine to be hidden, got %d routines", len(routines))
	}

	// Visible with includeDeleted
	routines, err = store.GetAllRoutines(true)
	if err != nil {
		t.Fatalf("failed to list all routines: %v", err)
	}
	if len(routines) != 1 {
		t.Fatalf("expected 1 routine including deleted, got %d", len(routines))
	}
	if routines[0].DeletedAt == nil {
		t.Error("expected deleted_at to be set")
	}

	// Double delete errors
	if err := store.DeleteRoutine("r1"); err == nil {
		t.Error("expected error deleting an already-deleted routine")
	}

	if err := store.RestoreRoutine("r1"); err != nil {
		t.Fatalf("failed to restore routine: %v", err)
	}
	restored, err := store.GetRoutine("r1")
	if err != nil {
		t.Fatalf("failed to get restored routine: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Error("expected deleted_at to be cleared after restore")
	}

	// Restore of a live routine errors
	if err := store.RestoreRoutine("r1"); err == nil {
		t.Error("expected error restoring a routine that is not deleted")
	}
}

func TestMoodSoftDelete(t *testing.T) {
	store := setupTestStore(t)

	now := time.Now()
	entry := models.MoodEntry{
		ID:        "m1",
		LoggedAt:  now,
		Mood:      4,
		Energy:    3,
		Note:      "fine",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.AddMoodEntry(entry); err != nil {
		t.Fatalf("failed to add mood entry: %v", err)
	}

	day := entry.Day()

	if err := store.DeleteMoodEntry("m1"); err != nil {
		t.Fatalf("failed to delete mood entry: %v", err)
	}

	entries, err := store.GetMoodEntriesForRange(day, day, false)
	if err != nil {
		t.Fatalf("failed to list mood entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected deleted entry to be hidden, got %d", len(entries))
	}

	entries, err = store.GetMoodEntriesForRange(day, day, true)
	if err != nil {
		t.Fatalf("failed to list all mood entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry including deleted, got %d", len(entries))
	}

	if err := store.RestoreMoodEntry("m1"); err != nil {
		t.Fatalf("failed to restore mood entry: %v", err)
	}
	got, err := store.GetMoodEntry("m1")
	if err != nil {
		t.Fatalf("failed to get restored entry: %v", err)
	}
	if got.DeletedAt != nil {
		t.Error("expected deleted_at cleared after restore")
	}
}

func TestPreferenceUpsertByCategoryLabel(t *testing.T) {
	store := setupTestStore(t)

	pref := models.SensoryPreference{
		ID:        "p1",
		Category:  models.PrefSound,
		Label:     "background noise",
		Intensity: 2,
		UpdatedAt: time.Now(),
	}
	if err := store.SavePreference(pref); err != nil {
		t.Fatalf("failed to save preference: %v", err)
	}

	// Same category+label updates in place instead of duplicating
	pref.Intensity = 4
	if err := store.SavePreference(pref); err != nil {
		t.Fatalf("failed to update preference: %v", err)
	}

	prefs, err := store.GetAllPreferences()
	if err != nil {
		t.Fatalf("failed to list preferences: %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("expected 1 preference, got %d", len(prefs))
	}
	if prefs[0].Intensity != 4 {
		t.Errorf("expected intensity 4, got %d", prefs[0].Intensity)
	}

	if err := store.DeletePreference(prefs[0].ID); err != nil {
		t.Fatalf("failed to delete preference: %v", err)
	}
	prefs, _ = store.GetAllPreferences()
	if len(prefs) != 0 {
		t.Errorf("expected no preferences after delete, got %d", len(prefs))
	}
}
