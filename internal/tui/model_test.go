package tui

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/remote"
	"github.com/uniplan/uniplan/internal/run"
	"github.com/uniplan/uniplan/internal/storage"
	"github.com/uniplan/uniplan/internal/syncer"
)

func setupModel(t *testing.T, stepNames ...string) Model {
	t.Helper()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := time.Now()
	r := models.Routine{ID: "r1", Name: "Morning", CreatedAt: now, UpdatedAt: now}
	for i, name := range stepNames {
		r.Steps = append(r.Steps, models.Step{
			ID:         fmt.Sprintf("s%d", i+1),
			RoutineID:  "r1",
			OrderIndex: i,
			Name:       name,
			Status:     constants.StepPending,
		})
	}
	if err := store.AddRoutine(r); err != nil {
		t.Fatalf("failed to add routine: %v", err)
	}

	session, err := run.Start(store, "r1")
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}

	return NewModel(store, syncer.New(store, remote.Offline()), session)
}

func TestResolveCurrentNotifiesOnComplete(t *testing.T) {
	m := setupModel(t, "Wake up", "Shower")

	var got []string
	m.notify = func(text string) { got = append(got, text) }

	next, _ := m.resolveCurrent(true)
	m = next.(Model)
	if len(got) != 1 || got[0] != "Wake up complete" {
		t.Fatalf("expected a completion notice for the first step, got %v", got)
	}

	// Skipping resolves the step without a notification
	next, _ = m.resolveCurrent(false)
	m = next.(Model)
	if len(got) != 1 {
		t.Errorf("expected no notification for a skipped step, got %v", got)
	}
	if !m.done {
		t.Error("expected the run to finish after both steps resolved")
	}
}

func TestNewModelAlwaysHasNotifier(t *testing.T) {
	m := setupModel(t, "Wake up")
	if m.notify == nil {
		t.Fatal("notify hook must never be nil")
	}
}
