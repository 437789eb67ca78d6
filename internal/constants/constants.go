package constants

import "time"

// StepStatus represents the execution state of a routine step
type StepStatus string

// MutationOp represents the kind of write a queued mutation carries
type MutationOp string

// EntityKind identifies the collection a mutation targets
type EntityKind string

const (
	AppName            = "uniplan"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigPath  = "~/.config/uniplan/uniplan.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "uniplan-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "uniplan-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.uniplan.tray"

	// Step status constants. Completed and skipped are terminal; only a full
	// routine reset moves a step back to pending.
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
	StepSkipped   StepStatus = "skipped"

	// Mutation operations
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"

	// Entity kinds carried by the pending-mutation queue
	EntityRoutine EntityKind = "routine"
	EntityMood    EntityKind = "mood"
	EntityPref    EntityKind = "sensory_preference"

	// TickInterval is the cadence at which the execution engine flushes
	// elapsed time for the current step to storage. Interruption loses at
	// most one tick of progress.
	TickInterval = time.Second

	// DefaultSyncIntervalMin is the periodic sync cadence while online
	DefaultSyncIntervalMin = 5

	// Mood scale bounds (inclusive)
	MoodScaleMin = 1
	MoodScaleMax = 5
)

// Terminal reports whether a step status permits no further transition.
func (s StepStatus) Terminal() bool {
	return s == StepCompleted || s == StepSkipped
}

// Valid reports whether s is a known step status.
func (s StepStatus) Valid() bool {
	return s == StepPending || s == StepCompleted || s == StepSkipped
}

// Valid reports whether op is a known mutation operation.
func (op MutationOp) Valid() bool {
	return op == OpCreate || op == OpUpdate || op == OpDelete
}

// Valid reports whether k is a known entity kind.
func (k EntityKind) Valid() bool {
	return k == EntityRoutine || k == EntityMood || k == EntityPref
}

// EntityKinds lists all entity kinds in replay-group order.
func EntityKinds() []EntityKind {
	return []EntityKind{EntityRoutine, EntityMood, EntityPref}
}
