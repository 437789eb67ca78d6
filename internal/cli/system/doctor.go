package system

import (
	"context"
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/backup"
	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/keyring"
	"github.com/uniplan/uniplan/internal/migration"
	"github.com/uniplan/uniplan/internal/storage"
	"github.com/uniplan/uniplan/internal/validation"
	"github.com/uniplan/uniplan/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version valid (only if DB is reachable)
	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 4: Routine validation (only if DB is reachable)
	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("❌ Routine validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Routine validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Routine validation: SKIPPED (database not reachable)\n")
	}

	// Check 5: Queue health (only if DB is reachable)
	if dbReachable {
		if err := checkQueueHealth(ctx); err != nil {
			fmt.Printf("⚠ Pending sync queue: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Pending sync queue: OK\n")
		}
	} else {
		fmt.Printf("⊘ Pending sync queue: SKIPPED (database not reachable)\n")
	}

	// Check 6: Keyring availability (warning only, the env var can stand in)
	if err := checkKeyring(); err != nil {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ OS keyring: OK\n")
	}

	// Check 7: Remote reachable (warning only, offline is a normal state)
	if err := checkRemoteReachable(ctx); err != nil {
		fmt.Printf("⚠ Remote reachable: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Remote reachable: OK\n")
	}

	// Check 8: Clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	_, err := ctx.Store.GetSettings()
	return err
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}
	runner := migration.NewRunner(sqliteStore.GetDB(), migrations.SQLite())
	return runner.ValidateVersion()
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found; create one with 'uniplan backup create'")
	}
	if time.Since(backups[0].Timestamp) > 7*24*time.Hour {
		return fmt.Errorf("most recent backup is older than a week")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	routines, err := ctx.Store.GetAllRoutines(false)
	if err != nil {
		return err
	}
	result := validation.New().ValidateRoutines(routines)
	if result.HasConflicts() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

func checkQueueHealth(ctx *cli.Context) error {
	status, err := ctx.Sync.Status()
	if err != nil {
		return err
	}
	if status.Pending > 100 {
		return fmt.Errorf("%d mutations pending sync; run 'uniplan sync now' while online", status.Pending)
	}
	if status.LastError != "" {
		return fmt.Errorf("last sync pass failed: %s", status.LastError)
	}
	return nil
}

// Injectable for tests
var keyringAvailable = keyring.IsAvailable

func checkKeyring() error {
	if !keyringAvailable() {
		return fmt.Errorf("OS keyring is not available; set %s to provide remote credentials", cli.RemoteConnEnvVar)
	}
	return nil
}

func checkRemoteReachable(ctx *cli.Context) error {
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ctx.Sync.Ping(pingCtx)
}

func checkClockTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if settings.Timezone != "" && settings.Timezone != "Local" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("configured timezone %q is invalid: %w", settings.Timezone, err)
		}
	}
	return nil
}
