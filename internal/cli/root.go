package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/uniplan/uniplan/internal/backup"
	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/logger"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/storage"
	"github.com/uniplan/uniplan/internal/syncer"
	"github.com/uniplan/uniplan/internal/utils"
)

type Context struct {
	Store storage.Provider
	Sync  *syncer.Engine
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	_, err := mgr.CreateBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// PushRoutine mirrors a routine's current local state to the remote,
// queueing on failure. The local write has already happened; a remote
// failure never rolls it back, so this only logs.
func (c *Context) PushRoutine(ctx context.Context, routineID string) {
	routine, err := c.Store.GetRoutine(routineID)
	if err != nil {
		logger.Warn("Failed to load routine for remote push", "routine", routineID, "error", err)
		return
	}

	op := constants.OpUpdate
	if routine.DeletedAt != nil {
		op = constants.OpDelete
	}

	var payload any = routine
	if op == constants.OpDelete {
		payload = nil
	}
	m, err := models.NewMutation(op, constants.EntityRoutine, routine.ID, payload)
	if err != nil {
		logger.Warn("Failed to build routine mutation", "routine", routineID, "error", err)
		return
	}

	if err := c.Sync.Push(ctx, m); err != nil {
		logger.Debug("Routine push deferred", "routine", routineID, "error", err)
	}
}

// PushMood mirrors a mood entry to the remote with the same semantics as PushRoutine.
func (c *Context) PushMood(ctx context.Context, entry models.MoodEntry, op constants.MutationOp) {
	var payload any = entry
	if op == constants.OpDelete {
		payload = nil
	}
	m, err := models.NewMutation(op, constants.EntityMood, entry.ID, payload)
	if err != nil {
		logger.Warn("Failed to build mood mutation", "entry", entry.ID, "error", err)
		return
	}
	if err := c.Sync.Push(ctx, m); err != nil {
		logger.Debug("Mood push deferred", "entry", entry.ID, "error", err)
	}
}

// PushPreference mirrors a sensory preference to the remote.
func (c *Context) PushPreference(ctx context.Context, pref models.SensoryPreference, op constants.MutationOp) {
	var payload any = pref
	if op == constants.OpDelete {
		payload = nil
	}
	m, err := models.NewMutation(op, constants.EntityPref, pref.ID, payload)
	if err != nil {
		logger.Warn("Failed to build preference mutation", "preference", pref.ID, "error", err)
		return
	}
	if err := c.Sync.Push(ctx, m); err != nil {
		logger.Debug("Preference push deferred", "preference", pref.ID, "error", err)
	}
}

// ResolveRoutine looks a routine up by id first, then by name, so commands
// accept either form.
func (c *Context) ResolveRoutine(ref string) (models.Routine, error) {
	if routine, err := c.Store.GetRoutine(ref); err == nil {
		return routine, nil
	}
	routine, err := c.Store.GetRoutineByName(ref)
	if err != nil {
		return models.Routine{}, fmt.Errorf("no routine with id or name %q", ref)
	}
	return routine, nil
}

// FormatStepLine renders one step for list output.
func FormatStepLine(step models.Step) string {
	marker := " "
	switch step.Status {
	case constants.StepCompleted:
		marker = "x"
	case constants.StepSkipped:
		marker = "-"
	}

	line := fmt.Sprintf("[%s] %d. %s", marker, step.OrderIndex+1, step.Name)
	if step.PlannedDuration > 0 {
		line += fmt.Sprintf(" (planned %s", utils.FormatDuration(step.PlannedDuration))
		if step.ActualDuration > 0 {
			line += fmt.Sprintf(", spent %s", utils.FormatDuration(step.ActualDuration))
		}
		line += ")"
	} else if step.ActualDuration > 0 {
		line += fmt.Sprintf(" (spent %s)", utils.FormatDuration(step.ActualDuration))
	}
	return line
}

// ParseSteps parses repeated "name" or "name:minutes" step definitions into
// ordered steps for a routine.
func ParseSteps(routineID string, defs []string) ([]models.Step, error) {
	steps := make([]models.Step, 0, len(defs))
	for i, def := range defs {
		name := def
		minutes := 0

		if idx := strings.LastIndex(def, ":"); idx > 0 {
			if n, err := utils.ParseMinutes(def[idx+1:]); err == nil {
				name = def[:idx]
				minutes = n
			}
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("step %d has an empty name", i+1)
		}

		dur, err := utils.ParseDurationMinutes(minutes)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", name, err)
		}

		steps = append(steps, models.Step{
			ID:              uuid.New().String(),
			RoutineID:       routineID,
			OrderIndex:      i,
			Name:            name,
			PlannedDuration: dur,
			Status:          constants.StepPending,
		})
	}
	return steps, nil
}
