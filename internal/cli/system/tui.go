package system

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/uniplan/uniplan/internal/cli"
	apperrors "github.com/uniplan/uniplan/internal/errors"
	"github.com/uniplan/uniplan/internal/run"
	"github.com/uniplan/uniplan/internal/tui"
)

type TuiCmd struct {
	Routine string `arg:"" help:"Routine ID or name to run."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}

	// Automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	session, err := run.Start(ctx.Store, routine.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAllStepsResolved) {
			return fmt.Errorf("every step of %q is already resolved; use 'uniplan run reset %s' to start over", routine.Name, c.Routine)
		}
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Sync, session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
