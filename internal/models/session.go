package models

import "time"

// RunSession is the persisted state of an active routine execution. One
// row per routine; the current step and its flushed elapsed time are all
// that is needed to resume after an interruption.
type RunSession struct {
	RoutineID     string    `json:"routine_id"`
	CurrentStepID string    `json:"current_step_id"`
	StartedAt     time.Time `json:"started_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
