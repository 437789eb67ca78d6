package models

import (
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/constants"
)

// MoodEntry is an append-only log entry of how the user felt at a moment.
// Entries are never mutated after creation except for explicit edits.
type MoodEntry struct {
	ID        string     `json:"id"`
	LoggedAt  time.Time  `json:"logged_at"`
	Mood      int        `json:"mood"`   // 1 (low) .. 5 (high)
	Energy    int        `json:"energy"` // 1 (drained) .. 5 (energized)
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (e *MoodEntry) Validate() error {
	if e.Mood < constants.MoodScaleMin || e.Mood > constants.MoodScaleMax {
		return fmt.Errorf("mood must be between %d and %d", constants.MoodScaleMin, constants.MoodScaleMax)
	}
	if e.Energy < constants.MoodScaleMin || e.Energy > constants.MoodScaleMax {
		return fmt.Errorf("energy must be between %d and %d", constants.MoodScaleMin, constants.MoodScaleMax)
	}
	if e.LoggedAt.IsZero() {
		return fmt.Errorf("logged_at cannot be zero")
	}
	return nil
}

// Day returns the entry's date string (YYYY-MM-DD) for per-day grouping.
func (e *MoodEntry) Day() string {
	return e.LoggedAt.Format(constants.DateFormat)
}
