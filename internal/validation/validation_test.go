package validation

import (
	"testing"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

func validRoutine(id, name string) models.Routine {
	return models.Routine{
		ID:   id,
		Name: name,
		Steps: []models.Step{
			{ID: id + "-1", RoutineID: id, OrderIndex: 0, Name: "First", PlannedDuration: 5 * time.Minute, Status: constants.StepPending},
			{ID: id + "-2", RoutineID: id, OrderIndex: 1, Name: "Second", Status: constants.StepPending},
		},
	}
}

func TestValidateRoutinesClean(t *testing.T) {
	v := New()
	result := v.ValidateRoutines([]models.Routine{validRoutine("r1", "Morning"), validRoutine("r2", "Evening")})

	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got: %s", result.FormatReport())
	}
	if report := result.FormatReport(); report != "No conflicts detected." {
		t.Errorf("unexpected report: %q", report)
	}
}

func TestDuplicateRoutineName(t *testing.T) {
	v := New()
	result := v.ValidateRoutines([]models.Routine{validRoutine("r1", "Morning"), validRoutine("r2", "Morning")})

	if !hasConflictType(result, ConflictDuplicateRoutineName) {
		t.Errorf("expected duplicate name conflict, got: %s", result.FormatReport())
	}
}

func TestDuplicateOrderIndex(t *testing.T) {
	r := validRoutine("r1", "Morning")
	r.Steps[1].OrderIndex = 0

	result := New().ValidateRoutines([]models.Routine{r})
	if !hasConflictType(result, ConflictDuplicateOrderIndex) {
		t.Errorf("expected duplicate order index conflict, got: %s", result.FormatReport())
	}
}

func TestEmptyRoutine(t *testing.T) {
	r := models.Routine{ID: "r1", Name: "Hollow"}

	result := New().ValidateRoutines([]models.Routine{r})
	if !hasConflictType(result, ConflictEmptyRoutine) {
		t.Errorf("expected empty routine conflict, got: %s", result.FormatReport())
	}
}

func TestInvalidSteps(t *testing.T) {
	r := validRoutine("r1", "Morning")
	r.Steps[0].Name = ""
	r.Steps[1].PlannedDuration = -time.Minute

	result := New().ValidateRoutines([]models.Routine{r})
	if !hasConflictType(result, ConflictInvalidStep) {
		t.Errorf("expected invalid step conflicts, got: %s", result.FormatReport())
	}
	if len(result.Conflicts) != 2 {
		t.Errorf("expected 2 conflicts, got %d", len(result.Conflicts))
	}
}

func TestUnknownStepStatus(t *testing.T) {
	r := validRoutine("r1", "Morning")
	r.Steps[0].Status = "paused"

	result := New().ValidateRoutines([]models.Routine{r})
	if !hasConflictType(result, ConflictInvalidStep) {
		t.Errorf("expected invalid step conflict for unknown status, got: %s", result.FormatReport())
	}
}

func hasConflictType(result ValidationResult, ct ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}
