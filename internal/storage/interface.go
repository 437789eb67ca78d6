package storage

import (
	"time"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

// Provider is the local per-device store: named collections with
// collection-scoped reads and writes, plus the pending-mutation queue as
// its own collection. All reads return consistent snapshots (one query
// per call); queue mutation is atomic at the storage layer so multiple
// processes sharing the same file cannot lose updates.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Routines
	AddRoutine(models.Routine) error
	GetRoutine(id string) (models.Routine, error)
	GetRoutineByName(name string) (models.Routine, error)
	GetAllRoutines(includeDeleted bool) ([]models.Routine, error)
	UpdateRoutine(models.Routine) error
	DeleteRoutine(id string) error
	RestoreRoutine(id string) error

	// Steps
	GetStepsForRoutine(routineID string) ([]models.Step, error)
	UpdateStep(models.Step) error

	// Mood entries
	AddMoodEntry(models.MoodEntry) error
	GetMoodEntry(id string) (models.MoodEntry, error)
	GetMoodEntriesForRange(startDay, endDay string, includeDeleted bool) ([]models.MoodEntry, error)
	UpdateMoodEntry(models.MoodEntry) error
	DeleteMoodEntry(id string) error
	RestoreMoodEntry(id string) error

	// Sensory preferences
	SavePreference(models.SensoryPreference) error
	GetAllPreferences() ([]models.SensoryPreference, error)
	DeletePreference(id string) error

	// Pending-mutation queue. EnqueueMutation assigns and returns the
	// sequence number; QueueSnapshot returns a read-only copy without
	// removing entries; ConfirmReplayed removes acknowledged entries.
	EnqueueMutation(models.Mutation) (int64, error)
	QueueSnapshot() ([]models.Mutation, error)
	ConfirmReplayed(seqs []int64) error
	QueueDepth() (int, error)
	HasPendingFor(entity constants.EntityKind) (bool, error)

	// Run sessions
	SaveRunSession(models.RunSession) error
	GetRunSession(routineID string) (models.RunSession, error)
	ClearRunSession(routineID string) error

	// Sync cursor (display only, not used for conflict resolution)
	GetLastSyncedAt() (*time.Time, error)
	SetLastSyncedAt(time.Time) error

	// Utils
	GetConfigPath() string
}
