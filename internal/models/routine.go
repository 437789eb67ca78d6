package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
)

// Routine is an ordered sequence of steps owned by a single user.
type Routine struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Steps     []Step     `json:"steps"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Step is a single unit of a routine with a planned duration and an
// execution state that survives interrupted sessions.
type Step struct {
	ID              string               `json:"id"`
	RoutineID       string               `json:"routine_id"`
	OrderIndex      int                  `json:"order_index"`
	Name            string               `json:"name"`
	PlannedDuration time.Duration        `json:"planned_duration"`
	Status          constants.StepStatus `json:"status"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	ActualDuration  time.Duration        `json:"actual_duration"`
}

func (r *Routine) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("routine name cannot be empty")
	}

	seen := make(map[int]string, len(r.Steps))
	for _, step := range r.Steps {
		if step.Name == "" {
			return fmt.Errorf("step name cannot be empty")
		}
		if step.PlannedDuration < 0 {
			return fmt.Errorf("step %q has negative planned duration", step.Name)
		}
		if !step.Status.Valid() {
			return fmt.Errorf("step %q has unknown status %q", step.Name, step.Status)
		}
		if other, dup := seen[step.OrderIndex]; dup {
			return fmt.Errorf("steps %q and %q share order index %d", other, step.Name, step.OrderIndex)
		}
		seen[step.OrderIndex] = step.Name
	}

	return nil
}

// SortSteps orders the routine's steps by order index in place.
func (r *Routine) SortSteps() {
	sort.Slice(r.Steps, func(i, j int) bool {
		return r.Steps[i].OrderIndex < r.Steps[j].OrderIndex
	})
}

// StepByID returns a pointer into Steps for the given id, or nil.
func (r *Routine) StepByID(id string) *Step {
	for i := range r.Steps {
		if r.Steps[i].ID == id {
			return &r.Steps[i]
		}
	}
	return nil
}

// AllResolved reports whether every step is in a terminal state.
func (r *Routine) AllResolved() bool {
	for _, step := range r.Steps {
		if !step.Status.Terminal() {
			return false
		}
	}
	return true
}

// NextPending selects the step to present after the step at afterIndex:
// the first pending step with a greater order index, wrapping around to
// the first pending step from the beginning. Returns nil when every step
// is resolved. A negative afterIndex scans from the start.
func (r *Routine) NextPending(afterIndex int) *Step {
	r.SortSteps()
	for i := range r.Steps {
		if r.Steps[i].Status == constants.StepPending && r.Steps[i].OrderIndex > afterIndex {
			return &r.Steps[i]
		}
	}
	for i := range r.Steps {
		if r.Steps[i].Status == constants.StepPending {
			return &r.Steps[i]
		}
	}
	return nil
}
