package models

import (
	"testing"

	"github.com/uniplan/uniplan/internal/constants"
)

func makeRoutine(statuses ...constants.StepStatus) Routine {
	r := Routine{
		ID:   "routine-1",
		Name: "Morning",
	}
	for i, status := range statuses {
		r.Steps = append(r.Steps, Step{
			ID:         string(rune('a' + i)),
			RoutineID:  r.ID,
			OrderIndex: i,
			Name:       "Step " + string(rune('A'+i)),
			Status:     status,
		})
	}
	return r
}

func TestNextPendingInOrder(t *testing.T) {
	r := makeRoutine(constants.StepPending, constants.StepPending, constants.StepPending)

	next := r.NextPending(-1)
	if next == nil || next.OrderIndex != 0 {
		t.Fatalf("expected first step, got %+v", next)
	}

	next = r.NextPending(0)
	if next == nil || next.OrderIndex != 1 {
		t.Fatalf("expected second step, got %+v", next)
	}
}

func TestNextPendingSkipsResolved(t *testing.T) {
	r := makeRoutine(constants.StepPending, constants.StepCompleted, constants.StepPending)

	next := r.NextPending(0)
	if next == nil || next.OrderIndex != 2 {
		t.Fatalf("expected step at index 2, got %+v", next)
	}
}

func TestNextPendingWrapsAround(t *testing.T) {
	// The only pending step is before the reference index, so selection
	// wraps to the beginning.
	r := makeRoutine(constants.StepPending, constants.StepCompleted, constants.StepCompleted)

	next := r.NextPending(2)
	if next == nil || next.OrderIndex != 0 {
		t.Fatalf("expected wrap-around to index 0, got %+v", next)
	}
}

func TestNextPendingAllResolved(t *testing.T) {
	r := makeRoutine(constants.StepCompleted, constants.StepSkipped)

	if next := r.NextPending(-1); next != nil {
		t.Fatalf("expected nil, got %+v", next)
	}
	if !r.AllResolved() {
		t.Error("expected AllResolved to be true")
	}
}

func TestAllResolvedMixed(t *testing.T) {
	r := makeRoutine(constants.StepCompleted, constants.StepPending)
	if r.AllResolved() {
		t.Error("expected AllResolved to be false with a pending step")
	}
}

func TestRoutineValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Routine)
		wantErr bool
	}{
		{"valid", func(r *Routine) {}, false},
		{"empty name", func(r *Routine) { r.Name = "" }, true},
		{"empty step name", func(r *Routine) { r.Steps[0].Name = "" }, true},
		{"negative duration", func(r *Routine) { r.Steps[0].PlannedDuration = -1 }, true},
		{"duplicate order index", func(r *Routine) { r.Steps[1].OrderIndex = 0 }, true},
		{"unknown status", func(r *Routine) { r.Steps[0].Status = "paused" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := makeRoutine(constants.StepPending, constants.StepPending)
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStepByID(t *testing.T) {
	r := makeRoutine(constants.StepPending, constants.StepPending)

	if step := r.StepByID("b"); step == nil || step.OrderIndex != 1 {
		t.Fatalf("expected step b at index 1, got %+v", step)
	}
	if step := r.StepByID("missing"); step != nil {
		t.Fatalf("expected nil for unknown id, got %+v", step)
	}
}
