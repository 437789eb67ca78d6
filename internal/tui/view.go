package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/utils"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.routine.Name))
	b.WriteString("\n")

	if m.done {
		b.WriteString(currentStepStyle.Render("All steps resolved. Nice work."))
		b.WriteString("\n")
		b.WriteString(timeStyle.Render("Press R to reset or q to quit."))
	} else {
		current := m.session.Current()

		header := current.Name
		b.WriteString(currentStepStyle.Render(header))
		b.WriteString("\n")

		elapsed := utils.FormatDuration(current.ActualDuration)
		if current.PlannedDuration > 0 {
			b.WriteString(timeStyle.Render(
				fmt.Sprintf("%s of %s", elapsed, utils.FormatDuration(current.PlannedDuration))))
			b.WriteString("\n")

			ratio := float64(current.ActualDuration) / float64(current.PlannedDuration)
			if ratio > 1 {
				ratio = 1
			}
			b.WriteString("  " + m.progress.ViewAs(ratio))
		} else {
			b.WriteString(timeStyle.Render(elapsed + " elapsed"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSteps())
	b.WriteString("\n")

	b.WriteString(statusBarStyle.Render(m.syncLine()))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(dangerStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

func (m Model) renderSteps() string {
	var lines []string

	currentID := ""
	if !m.done {
		currentID = m.session.Current().ID
	}

	for i, step := range m.routine.Steps {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		marker := "·"
		style := pendingStyle
		switch step.Status {
		case constants.StepCompleted:
			marker = "✓"
			style = resolvedStyle
		case constants.StepSkipped:
			marker = "~"
			style = resolvedStyle
		default:
			if step.ID == currentID {
				marker = "▶"
				style = selectedStyle
			}
		}

		line := fmt.Sprintf("%s %s", marker, step.Name)
		if step.PlannedDuration > 0 {
			line += fmt.Sprintf("  (%s)", utils.FormatDuration(step.PlannedDuration))
		}
		lines = append(lines, cursor+style.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) syncLine() string {
	if m.syncStatus.Pending == 0 {
		if m.syncStatus.LastSyncedAt != nil {
			return fmt.Sprintf("synced %s", m.syncStatus.LastSyncedAt.Format("15:04"))
		}
		return "all changes local"
	}

	line := fmt.Sprintf("%d changes pending sync", m.syncStatus.Pending)
	if m.syncStatus.InFlight {
		line += " (syncing…)"
	}
	return line
}
