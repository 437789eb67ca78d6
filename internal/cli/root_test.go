package cli

import (
	"testing"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps("r1", []string{"Wake up", "Shower:10", "Breakfast:15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}

	if steps[0].Name != "Wake up" || steps[0].PlannedDuration != 0 {
		t.Errorf("unexpected first step: %+v", steps[0])
	}
	if steps[1].Name != "Shower" || steps[1].PlannedDuration != 10*time.Minute {
		t.Errorf("unexpected second step: %+v", steps[1])
	}

	for i, step := range steps {
		if step.OrderIndex != i {
			t.Errorf("step %d has order index %d", i, step.OrderIndex)
		}
		if step.ID == "" {
			t.Errorf("step %d missing generated id", i)
		}
		if step.RoutineID != "r1" {
			t.Errorf("step %d has routine id %s", i, step.RoutineID)
		}
		if step.Status != constants.StepPending {
			t.Errorf("step %d not pending: %s", i, step.Status)
		}
	}
}

func TestParseStepsColonInName(t *testing.T) {
	// A trailing segment that is not a number stays part of the name
	steps, err := ParseSteps("r1", []string{"Stretch: gently"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if steps[0].Name != "Stretch: gently" {
		t.Errorf("expected full name preserved, got %q", steps[0].Name)
	}
}

func TestParseStepsEmptyName(t *testing.T) {
	if _, err := ParseSteps("r1", []string{"  "}); err == nil {
		t.Error("expected error for empty step name")
	}
	if _, err := ParseSteps("r1", []string{"Warmup:5", ""}); err == nil {
		t.Error("expected error for empty step definition")
	}
}

func TestFormatStepLine(t *testing.T) {
	tests := []struct {
		name string
		step models.Step
		want string
	}{
		{
			"pending with plan",
			models.Step{OrderIndex: 0, Name: "Shower", PlannedDuration: 10 * time.Minute, Status: constants.StepPending},
			"[ ] 1. Shower (planned 10:00)",
		},
		{
			"completed with elapsed",
			models.Step{OrderIndex: 1, Name: "Breakfast", PlannedDuration: 15 * time.Minute, ActualDuration: 12 * time.Minute, Status: constants.StepCompleted},
			"[x] 2. Breakfast (planned 15:00, spent 12:00)",
		},
		{
			"skipped without durations",
			models.Step{OrderIndex: 2, Name: "Stretch", Status: constants.StepSkipped},
			"[-] 3. Stretch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatStepLine(tt.step); got != tt.want {
				t.Errorf("FormatStepLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
