package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/uniplan/uniplan/internal/constants"
	apperrors "github.com/uniplan/uniplan/internal/errors"
	"github.com/uniplan/uniplan/internal/run"
	"github.com/uniplan/uniplan/internal/syncer"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-8, 50)
		return m, nil

	case TickMsg:
		if !m.done {
			if err := m.session.Tick(constants.TickInterval); err != nil {
				m.errMsg = err.Error()
			}
			m.routine = m.session.Routine()
			m.routine.SortSteps()
		}
		return m, tea.Batch(tick(), m.refreshSyncStatus())

	case syncStatusMsg:
		m.syncStatus = syncer.Status(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Sync):
		m.engine.Trigger()
		return m, m.refreshSyncStatus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.routine.Steps)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.done {
			return m, nil
		}
		step := m.routine.Steps[m.cursor]
		if err := m.session.SelectManually(step.ID); err != nil {
			if !errors.Is(err, apperrors.ErrInvalidTransition) {
				m.errMsg = err.Error()
			}
			return m, nil
		}
		m.errMsg = ""
		m.routine = m.session.Routine()
		m.routine.SortSteps()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		return m.resolveCurrent(true)

	case key.Matches(msg, m.keys.Skip):
		return m.resolveCurrent(false)

	case key.Matches(msg, m.keys.Reset):
		if err := run.Reset(m.store, m.routine.ID); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		session, err := run.Start(m.store, m.routine.ID)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.session = session
		m.routine = session.Routine()
		m.routine.SortSteps()
		m.done = false
		m.errMsg = ""
		m.cursor = m.indexOfCurrent()
		return m, m.pushRoutine()
	}

	return m, nil
}

func (m Model) resolveCurrent(complete bool) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	current := m.session.Current()

	var err error
	if complete {
		_, err = m.session.Advance(current.ID)
	} else {
		_, err = m.session.Skip(current.ID)
	}

	if errors.Is(err, apperrors.ErrAllStepsResolved) {
		m.done = true
		err = nil
	}
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	if complete {
		m.notify(fmt.Sprintf("%s complete", current.Name))
	}

	m.errMsg = ""
	m.routine = m.session.Routine()
	m.routine.SortSteps()
	if !m.done {
		m.cursor = m.indexOfCurrent()
	}

	return m, m.pushRoutine()
}
