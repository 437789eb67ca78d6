package run

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	apperrors "github.com/uniplan/uniplan/internal/errors"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/storage"
)

func setupSession(t *testing.T, stepCount int) (storage.Provider, *Session, models.Routine) {
	t.Helper()

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := time.Now()
	routine := models.Routine{
		ID:        "r1",
		Name:      "Morning",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := 0; i < stepCount; i++ {
		routine.Steps = append(routine.Steps, models.Step{
			ID:              "s" + string(rune('1'+i)),
			RoutineID:       "r1",
			OrderIndex:      i,
			Name:            "Step " + string(rune('1'+i)),
			PlannedDuration: 5 * time.Minute,
			Status:          constants.StepPending,
		})
	}
	if err := store.AddRoutine(routine); err != nil {
		t.Fatalf("failed to add routine: %v", err)
	}

	session, err := Start(store, "r1")
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return store, session, routine
}

func TestStartSelectsFirstPending(t *testing.T) {
	_, session, _ := setupSession(t, 3)

	if got := session.Current(); got.ID != "s1" {
		t.Errorf("expected first step current, got %s", got.ID)
	}
}

func TestAdvanceWalksStepsInOrder(t *testing.T) {
	store, session, _ := setupSession(t, 3)

	next, err := session.Advance("s1")
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if next.ID != "s2" {
		t.Errorf("expected s2 next, got %s", next.ID)
	}

	// Completion is persisted with a timestamp
	routine, _ := store.GetRoutine("r1")
	done := routine.StepByID("s1")
	if done.Status != constants.StepCompleted {
		t.Errorf("expected s1 completed, got %s", done.Status)
	}
	if done.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestSkipIsTerminalWithoutTimestamp(t *testing.T) {
	store, session, _ := setupSession(t, 2)

	if _, err := session.Skip("s1"); err != nil {
		t.Fatalf("skip failed: %v", err)
	}

	routine, _ := store.GetRoutine("r1")
	skipped := routine.StepByID("s1")
	if skipped.Status != constants.StepSkipped {
		t.Errorf("expected s1 skipped, got %s", skipped.Status)
	}
	if skipped.CompletedAt != nil {
		t.Error("skipped steps should not get a completion timestamp")
	}
}

func TestAdvanceOnTerminalStepIsNoOp(t *testing.T) {
	store, session, _ := setupSession(t, 3)

	if _, err := session.Advance("s1"); err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	// Duplicate trigger: no error, selection unchanged
	next, err := session.Advance("s1")
	if err != nil {
		t.Fatalf("expected no-op, got error: %v", err)
	}
	if next.ID != "s2" {
		t.Errorf("expected current to stay s2, got %s", next.ID)
	}

	// Skipping an already-completed step must not flip its state
	if _, err := session.Skip("s1"); err != nil {
		t.Fatalf("expected no-op skip, got error: %v", err)
	}
	routine, _ := store.GetRoutine("r1")
	if got := routine.StepByID("s1").Status; got != constants.StepCompleted {
		t.Errorf("terminal state changed by duplicate trigger: %s", got)
	}
}

func TestAdvanceNonCurrentPendingIsInvalid(t *testing.T) {
	_, session, _ := setupSession(t, 3)

	_, err := session.Advance("s3")
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAdvanceUnknownStep(t *testing.T) {
	_, session, _ := setupSession(t, 2)

	_, err := session.Advance("ghost")
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestWrapAroundSelection(t *testing.T) {
	_, session, _ := setupSession(t, 3)

	// Jump to the last step, resolve it; the next selection wraps to s1
	if err := session.SelectManually("s3"); err != nil {
		t.Fatalf("manual select failed: %v", err)
	}
	next, err := session.Advance("s3")
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if next.ID != "s1" {
		t.Errorf("expected wrap-around to s1, got %s", next.ID)
	}
}

func TestAllStepsResolved(t *testing.T) {
	store, session, _ := setupSession(t, 2)

	if _, err := session.Advance("s1"); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	_, err := session.Skip("s2")
	if !errors.Is(err, apperrors.ErrAllStepsResolved) {
		t.Fatalf("expected ErrAllStepsResolved, got %v", err)
	}

	// Session cleared; a fresh start reports the same
	if _, err := store.GetRunSession("r1"); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Errorf("expected run session cleared, got %v", err)
	}
	if _, err := Start(store, "r1"); !errors.Is(err, apperrors.ErrAllStepsResolved) {
		t.Errorf("expected ErrAllStepsResolved on restart, got %v", err)
	}
}

func TestSelectManuallyRequiresPending(t *testing.T) {
	_, session, _ := setupSession(t, 3)

	if _, err := session.Advance("s1"); err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	err := session.SelectManually("s1")
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition selecting a completed step, got %v", err)
	}
}

func TestTickPersistsElapsedTime(t *testing.T) {
	store, session, _ := setupSession(t, 2)

	for i := 0; i < 3; i++ {
		if err := session.Tick(time.Second); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
	}

	routine, _ := store.GetRoutine("r1")
	if got := routine.StepByID("s1").ActualDuration; got != 3*time.Second {
		t.Errorf("expected 3s elapsed, got %s", got)
	}
}

func TestResumeInterruptedSession(t *testing.T) {
	store, session, _ := setupSession(t, 3)

	if err := session.SelectManually("s2"); err != nil {
		t.Fatalf("manual select failed: %v", err)
	}
	if err := session.Tick(2 * time.Second); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	// Simulate a restart: a new session resumes on s2 with elapsed intact
	resumed, err := Start(store, "r1")
	if err != nil {
		t.Fatalf("failed to resume session: %v", err)
	}
	current := resumed.Current()
	if current.ID != "s2" {
		t.Errorf("expected resumed current s2, got %s", current.ID)
	}
	if current.ActualDuration != 2*time.Second {
		t.Errorf("expected elapsed 2s preserved, got %s", current.ActualDuration)
	}
}

func TestResumeSkipsResolvedPersistedStep(t *testing.T) {
	store, session, _ := setupSession(t, 3)

	// Resolve the persisted current step out-of-band, then restart
	current := session.Current()
	current.Status = constants.StepCompleted
	if err := store.UpdateStep(current); err != nil {
		t.Fatalf("failed to update step: %v", err)
	}

	resumed, err := Start(store, "r1")
	if err != nil {
		t.Fatalf("failed to resume: %v", err)
	}
	if got := resumed.Current(); got.ID != "s2" {
		t.Errorf("expected resume to fall through to s2, got %s", got.ID)
	}
}

func TestReset(t *testing.T) {
	store, session, _ := setupSession(t, 2)

	if err := session.Tick(5 * time.Second); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if _, err := session.Advance("s1"); err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	if err := Reset(store, "r1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	routine, _ := store.GetRoutine("r1")
	for _, step := range routine.Steps {
		if step.Status != constants.StepPending {
			t.Errorf("step %s not pending after reset: %s", step.ID, step.Status)
		}
		if step.ActualDuration != 0 {
			t.Errorf("step %s kept elapsed time after reset: %s", step.ID, step.ActualDuration)
		}
		if step.CompletedAt != nil {
			t.Errorf("step %s kept completion timestamp after reset", step.ID)
		}
	}

	if _, err := store.GetRunSession("r1"); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Errorf("expected run session cleared by reset, got %v", err)
	}
}
