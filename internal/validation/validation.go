package validation

import (
	"fmt"

	"github.com/uniplan/uniplan/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateRoutineName ConflictType = "duplicate_routine_name"
	ConflictDuplicateOrderIndex  ConflictType = "duplicate_order_index"
	ConflictEmptyRoutine         ConflictType = "empty_routine"
	ConflictInvalidStep          ConflictType = "invalid_step"
)

// Conflict represents a detected problem in routines or steps
type Conflict struct {
	Type        ConflictType
	Description string
	RoutineID   string
	Items       []string // step or routine names involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator validates routines and their steps
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateRoutines checks a set of routines for conflicts
func (v *Validator) ValidateRoutines(routines []models.Routine) ValidationResult {
	result := ValidationResult{}

	seenNames := make(map[string]bool)
	for _, routine := range routines {
		if seenNames[routine.Name] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateRoutineName,
				Description: fmt.Sprintf("Duplicate routine name: %q", routine.Name),
				RoutineID:   routine.ID,
				Items:       []string{routine.Name},
			})
		}
		seenNames[routine.Name] = true

		result.Conflicts = append(result.Conflicts, v.validateSteps(routine)...)
	}

	return result
}

func (v *Validator) validateSteps(routine models.Routine) []Conflict {
	var conflicts []Conflict

	if len(routine.Steps) == 0 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictEmptyRoutine,
			Description: fmt.Sprintf("Routine %q has no steps", routine.Name),
			RoutineID:   routine.ID,
		})
		return conflicts
	}

	seenIndices := make(map[int]string)
	for _, step := range routine.Steps {
		if other, dup := seenIndices[step.OrderIndex]; dup {
			conflicts = append(conflicts, Conflict{
				Type: ConflictDuplicateOrderIndex,
				Description: fmt.Sprintf("Routine %q: steps %q and %q share order index %d",
					routine.Name, other, step.Name, step.OrderIndex),
				RoutineID: routine.ID,
				Items:     []string{other, step.Name},
			})
		}
		seenIndices[step.OrderIndex] = step.Name

		if step.Name == "" {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidStep,
				Description: fmt.Sprintf("Routine %q has a step with an empty name", routine.Name),
				RoutineID:   routine.ID,
			})
		}
		if step.PlannedDuration < 0 {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidStep,
				Description: fmt.Sprintf("Routine %q: step %q has a negative planned duration", routine.Name, step.Name),
				RoutineID:   routine.ID,
				Items:       []string{step.Name},
			})
		}
		if !step.Status.Valid() {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidStep,
				Description: fmt.Sprintf("Routine %q: step %q has unknown status %q", routine.Name, step.Name, step.Status),
				RoutineID:   routine.ID,
				Items:       []string{step.Name},
			})
		}
	}

	return conflicts
}
