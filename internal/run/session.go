// Package run drives routine execution: one session per routine, a single
// current step, pending → completed|skipped transitions, and elapsed-time
// persistence so an interrupted session resumes where it left off.
package run

import (
	"errors"
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	apperrors "github.com/uniplan/uniplan/internal/errors"
	"github.com/uniplan/uniplan/internal/logger"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/storage"
)

// Session is an active execution of one routine. All transitions write
// through to the store immediately (optimistic local persistence); the
// caller decides when to mirror the routine to the remote service.
type Session struct {
	store   storage.Provider
	routine models.Routine
	current *models.Step
}

// Start begins or resumes execution of a routine. If a persisted session
// exists and its current step is still pending, execution resumes there;
// otherwise the current step is the first pending step in order-index
// order. Returns ErrAllStepsResolved when every step is terminal.
func Start(store storage.Provider, routineID string) (*Session, error) {
	routine, err := store.GetRoutine(routineID)
	if err != nil {
		return nil, err
	}
	routine.SortSteps()

	if routine.AllResolved() {
		return nil, apperrors.ErrAllStepsResolved
	}

	s := &Session{
		store:   store,
		routine: routine,
	}

	// Resume an interrupted session when its step is still actionable
	if prev, err := store.GetRunSession(routineID); err == nil {
		if step := routine.StepByID(prev.CurrentStepID); step != nil && step.Status == constants.StepPending {
			s.current = step
			logger.Debug("Resumed session", "routine", routineID, "step", step.ID, "elapsed", step.ActualDuration)
			return s, s.persistSession(prev.StartedAt)
		}
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return nil, err
	}

	s.current = routine.NextPending(-1)
	return s, s.persistSession(time.Now())
}

// Routine returns the session's routine snapshot.
func (s *Session) Routine() models.Routine {
	return s.routine
}

// Current returns the step presented to the user.
func (s *Session) Current() models.Step {
	return *s.current
}

// Advance marks the given step completed, records its actual duration,
// and selects the next current step. Calling it on an already-terminal
// step is a no-op guarding against duplicate UI events: no re-selection,
// no duplicate duration recording.
func (s *Session) Advance(stepID string) (*models.Step, error) {
	return s.resolve(stepID, constants.StepCompleted)
}

// Skip marks the given step skipped and selects the next current step
// with the same wrap-around rule as Advance.
func (s *Session) Skip(stepID string) (*models.Step, error) {
	return s.resolve(stepID, constants.StepSkipped)
}

func (s *Session) resolve(stepID string, to constants.StepStatus) (*models.Step, error) {
	step := s.routine.StepByID(stepID)
	if step == nil {
		return nil, fmt.Errorf("%w: step %s does not exist", apperrors.ErrInvalidTransition, stepID)
	}

	if step.Status.Terminal() {
		// Duplicate trigger: keep current selection and durations untouched
		logger.Debug("Ignoring transition on terminal step", "step", stepID, "status", step.Status)
		return s.current, nil
	}

	if s.current == nil || step.ID != s.current.ID {
		return nil, fmt.Errorf("%w: step %s is not the current step", apperrors.ErrInvalidTransition, stepID)
	}

	step.Status = to
	if to == constants.StepCompleted {
		now := time.Now()
		step.CompletedAt = &now
	}
	if err := s.store.UpdateStep(*step); err != nil {
		return nil, err
	}

	next := s.routine.NextPending(step.OrderIndex)
	s.current = next

	if next == nil {
		if err := s.store.ClearRunSession(s.routine.ID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrAllStepsResolved
	}

	return next, s.persistSession(time.Time{})
}

// SelectManually switches the current step to the given pending step
// without altering any execution state. The elapsed time of the step
// being left has already been flushed by Tick and is preserved.
func (s *Session) SelectManually(stepID string) error {
	step := s.routine.StepByID(stepID)
	if step == nil {
		return fmt.Errorf("%w: step %s does not exist", apperrors.ErrInvalidTransition, stepID)
	}
	if step.Status != constants.StepPending {
		return fmt.Errorf("%w: step %s is %s", apperrors.ErrInvalidTransition, stepID, step.Status)
	}

	s.current = step
	return s.persistSession(time.Time{})
}

// Tick adds elapsed active time to the current step and flushes it to
// storage. Called on a fixed cadence while timing so interruption loses
// at most one tick of progress.
func (s *Session) Tick(d time.Duration) error {
	if s.current == nil || d <= 0 {
		return nil
	}

	s.current.ActualDuration += d
	return s.store.UpdateStep(*s.current)
}

// Reset returns every step of the routine to pending, clearing recorded
// durations and completion timestamps, and removes any persisted session.
// This is the only transition out of a terminal state.
func Reset(store storage.Provider, routineID string) error {
	routine, err := store.GetRoutine(routineID)
	if err != nil {
		return err
	}

	for i := range routine.Steps {
		routine.Steps[i].Status = constants.StepPending
		routine.Steps[i].CompletedAt = nil
		routine.Steps[i].ActualDuration = 0
	}
	routine.UpdatedAt = time.Now()

	if err := store.UpdateRoutine(routine); err != nil {
		return err
	}
	return store.ClearRunSession(routineID)
}

func (s *Session) persistSession(startedAt time.Time) error {
	if s.current == nil {
		return nil
	}

	now := time.Now()
	if startedAt.IsZero() {
		if prev, err := s.store.GetRunSession(s.routine.ID); err == nil {
			startedAt = prev.StartedAt
		} else {
			startedAt = now
		}
	}

	return s.store.SaveRunSession(models.RunSession{
		RoutineID:     s.routine.ID,
		CurrentStepID: s.current.ID,
		StartedAt:     startedAt,
		UpdatedAt:     now,
	})
}
