// Package tui is the interactive routine runner: it drives one run.Session,
// flushes elapsed time every second, and mirrors resolved steps to the sync
// engine in the background.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/logger"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/notifier"
	"github.com/uniplan/uniplan/internal/run"
	"github.com/uniplan/uniplan/internal/storage"
	"github.com/uniplan/uniplan/internal/syncer"
)

type Model struct {
	store   storage.Provider
	engine  *syncer.Engine
	session *run.Session

	routine models.Routine
	cursor  int
	done    bool
	errMsg  string
	notify  func(text string)

	progress   progress.Model
	help       help.Model
	keys       keyMap
	syncStatus syncer.Status

	width  int
	height int
}

type TickMsg time.Time

type syncStatusMsg syncer.Status

func NewModel(store storage.Provider, engine *syncer.Engine, session *run.Session) Model {
	m := Model{
		store:    store,
		engine:   engine,
		session:  session,
		routine:  session.Routine(),
		progress: progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     keys,
	}
	m.notify = func(string) {}
	if settings, err := store.GetSettings(); err == nil && settings.NotificationsEnabled {
		n := notifier.New()
		m.notify = func(text string) {
			// Fire-and-forget; a missing tray app just logs
			go func() { _ = n.Notify(text) }()
		}
	}
	m.routine.SortSteps()
	m.cursor = m.indexOfCurrent()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.refreshSyncStatus())
}

func tick() tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) refreshSyncStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := m.engine.Status()
		if err != nil {
			return syncStatusMsg(syncer.Status{})
		}
		return syncStatusMsg(status)
	}
}

// indexOfCurrent returns the sorted-steps index of the session's current
// step, or 0 when the run is finished.
func (m Model) indexOfCurrent() int {
	if m.done {
		return 0
	}
	current := m.session.Current()
	for i, step := range m.routine.Steps {
		if step.ID == current.ID {
			return i
		}
	}
	return 0
}

// pushRoutine mirrors the routine's local state to the remote in the
// background. Failures queue the mutation; nothing here blocks the UI.
func (m Model) pushRoutine() tea.Cmd {
	engine := m.engine
	store := m.store
	routineID := m.routine.ID

	return func() tea.Msg {
		routine, err := store.GetRoutine(routineID)
		if err != nil {
			logger.Warn("Failed to load routine for remote push", "routine", routineID, "error", err)
			return nil
		}
		mut, err := models.NewMutation(constants.OpUpdate, constants.EntityRoutine, routine.ID, routine)
		if err != nil {
			logger.Warn("Failed to build routine mutation", "routine", routineID, "error", err)
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := engine.Push(ctx, mut); err != nil {
			logger.Debug("Routine push deferred", "routine", routineID, "error", err)
		}
		status, err := engine.Status()
		if err != nil {
			return nil
		}
		return syncStatusMsg(status)
	}
}
