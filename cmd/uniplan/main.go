package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/cli/backups"
	"github.com/uniplan/uniplan/internal/cli/moods"
	"github.com/uniplan/uniplan/internal/cli/prefs"
	"github.com/uniplan/uniplan/internal/cli/routines"
	"github.com/uniplan/uniplan/internal/cli/runs"
	"github.com/uniplan/uniplan/internal/cli/settings"
	"github.com/uniplan/uniplan/internal/cli/syncs"
	"github.com/uniplan/uniplan/internal/cli/system"
	"github.com/uniplan/uniplan/internal/constants"
	apperrors "github.com/uniplan/uniplan/internal/errors"
	"github.com/uniplan/uniplan/internal/logger"
	"github.com/uniplan/uniplan/internal/notifier"
	"github.com/uniplan/uniplan/internal/remote"
	"github.com/uniplan/uniplan/internal/storage"
	"github.com/uniplan/uniplan/internal/syncer"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Local database path." type:"path" default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize uniplan storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run local database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Run a routine interactively."`
	Routine struct {
		Add    routines.RoutineAddCmd    `cmd:"" help:"Add a new routine."`
		List   routines.RoutineListCmd   `cmd:"" help:"List routines." default:"1"`
		Show   routines.RoutineShowCmd   `cmd:"" help:"Show a routine and its steps."`
		Delete routines.RoutineDeleteCmd `cmd:"" help:"Delete a routine."`
	} `cmd:"" help:"Manage routines."`
	Step struct {
		Add routines.StepAddCmd `cmd:"" help:"Add a step to a routine."`
	} `cmd:"" help:"Manage routine steps."`
	Run struct {
		Start   runs.RunStartCmd   `cmd:"" help:"Begin or resume a routine run."`
		Advance runs.RunAdvanceCmd `cmd:"" help:"Complete the current step."`
		Skip    runs.RunSkipCmd    `cmd:"" help:"Skip the current step."`
		Select  runs.RunSelectCmd  `cmd:"" help:"Work on a different pending step."`
		Status  runs.RunStatusCmd  `cmd:"" help:"Show run progress." default:"1"`
		Reset   runs.RunResetCmd   `cmd:"" help:"Reset every step back to pending."`
	} `cmd:"" help:"Execute routines step by step."`
	Mood struct {
		Log    moods.MoodLogCmd    `cmd:"" help:"Log how you feel." default:"1"`
		List   moods.MoodListCmd   `cmd:"" help:"List recent mood entries."`
		Delete moods.MoodDeleteCmd `cmd:"" help:"Delete a mood entry."`
	} `cmd:"" help:"Track mood and energy."`
	Pref struct {
		Set    prefs.PrefSetCmd    `cmd:"" help:"Set a sensory preference."`
		List   prefs.PrefListCmd   `cmd:"" help:"List sensory preferences." default:"1"`
		Delete prefs.PrefDeleteCmd `cmd:"" help:"Delete a sensory preference."`
	} `cmd:"" help:"Manage sensory preferences."`
	Sync struct {
		Now    syncs.SyncNowCmd    `cmd:"" help:"Replay pending changes to the remote." default:"1"`
		Status syncs.SyncStatusCmd `cmd:"" help:"Show pending changes and last sync time."`
		Setup  syncs.SyncSetupCmd  `cmd:"" help:"Create the remote schema."`
	} `cmd:"" help:"Sync local changes with the remote."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Restore struct {
		Routine routines.RoutineRestoreCmd `cmd:"" help:"Restore a deleted routine."`
		Mood    moods.MoodRestoreCmd       `cmd:"" help:"Restore a deleted mood entry."`
	} `cmd:"" help:"Restore deleted items."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the remote connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage remote credentials in the OS keyring."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Notify   system.NotifyCmd     `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Offline-first routine, mood, and sensory-preference planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store := storage.NewSQLiteStore(CLI.Config)

	// Load the store before running the command. Init handles its own setup,
	// and migrate opens without version validation so it can reach the
	// outdated databases it upgrades.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		var err error
		if ctx.Selected().Name == "migrate" {
			err = store.Open()
		} else {
			err = store.Load()
		}
		if err != nil {
			apperrors.Fatal(err)
		}
	}

	svc := buildRemote()
	defer svc.Close()

	engine := syncer.New(store, svc)
	engine.OnConflict(func(c syncer.Conflict) {
		fmt.Fprintf(os.Stderr, "Sync conflict: your local %s change to %s was rejected by the server and discarded: %v\n",
			c.Mutation.Op, c.Mutation.Entity, c.Err)
		if settings, err := store.GetSettings(); err == nil && settings.NotificationsEnabled {
			_ = notifier.New().Notify(fmt.Sprintf("Sync conflict: a %s change was rejected and discarded", c.Mutation.Entity))
		}
	})

	appCtx := &cli.Context{
		Store: store,
		Sync:  engine,
	}

	// Background periodic sync for long-lived commands (the TUI); one-shot
	// commands piggyback a pass through Engine.Push instead.
	if ctx.Selected() != nil && ctx.Selected().Name == "tui" {
		if settings, err := store.GetSettings(); err == nil && settings.AutoSyncEnabled {
			interval := time.Duration(settings.SyncIntervalMin) * time.Minute
			if interval <= 0 {
				interval = time.Duration(constants.DefaultSyncIntervalMin) * time.Minute
			}
			runCtx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go engine.Run(runCtx, interval)
		}
	}

	err := ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	if err != nil {
		apperrors.Fatal(err)
	}
}

// buildRemote wires the configured Postgres backend, or the offline stub
// when none is set up. A misconfigured remote degrades to offline instead
// of blocking local use.
func buildRemote() remote.Service {
	connStr, err := cli.ResolveRemoteConnString()
	if err != nil {
		logger.Warn("Failed to resolve remote credentials", "error", err)
		return remote.Offline()
	}
	if connStr == "" {
		return remote.Offline()
	}

	svc := remote.NewPostgresService(connStr)
	if err := svc.Open(); err != nil {
		logger.Warn("Failed to open remote connection", "error", err)
		return remote.Offline()
	}
	return svc
}
