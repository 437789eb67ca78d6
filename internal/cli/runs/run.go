package runs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/uniplan/uniplan/internal/cli"
	apperrors "github.com/uniplan/uniplan/internal/errors"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/run"
	"github.com/uniplan/uniplan/internal/utils"
)

// RunStartCmd begins or resumes a routine run and prints the current step.
// Timed execution happens in the TUI; this is the scriptable entry point.
type RunStartCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
}

func (c *RunStartCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}

	session, err := run.Start(ctx.Store, routine.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAllStepsResolved) {
			return fmt.Errorf("every step of %q is already resolved; use 'uniplan run reset %s' to start over", routine.Name, c.Routine)
		}
		return err
	}

	printCurrent(session)
	return nil
}

type RunAdvanceCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
}

func (c *RunAdvanceCmd) Run(ctx *cli.Context) error {
	return resolveCurrent(ctx, c.Routine, true)
}

type RunSkipCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
}

func (c *RunSkipCmd) Run(ctx *cli.Context) error {
	return resolveCurrent(ctx, c.Routine, false)
}

func resolveCurrent(ctx *cli.Context, ref string, complete bool) error {
	routine, err := ctx.ResolveRoutine(ref)
	if err != nil {
		return err
	}

	session, err := run.Start(ctx.Store, routine.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAllStepsResolved) {
			return fmt.Errorf("every step of %q is already resolved", routine.Name)
		}
		return err
	}

	current := session.Current()

	var next *models.Step
	if complete {
		next, err = session.Advance(current.ID)
	} else {
		next, err = session.Skip(current.ID)
	}

	done := errors.Is(err, apperrors.ErrAllStepsResolved)
	if err != nil && !done {
		return err
	}

	if complete {
		fmt.Printf("Completed: %s\n", current.Name)
	} else {
		fmt.Printf("Skipped: %s\n", current.Name)
	}

	ctx.PushRoutine(context.Background(), routine.ID)

	if done {
		fmt.Printf("All steps of %q are resolved. Nice work.\n", routine.Name)
		return nil
	}

	fmt.Printf("Next: %s\n", next.Name)
	return nil
}

type RunSelectCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
	Step    string `arg:"" help:"Step name or 1-based position to make current."`
}

func (c *RunSelectCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}

	session, err := run.Start(ctx.Store, routine.ID)
	if err != nil {
		return err
	}

	step, err := findStep(session.Routine(), c.Step)
	if err != nil {
		return err
	}

	if err := session.SelectManually(step.ID); err != nil {
		return err
	}

	printCurrent(session)
	return nil
}

type RunStatusCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
}

func (c *RunStatusCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}
	routine.SortSteps()

	fmt.Printf("%s\n\n", routine.Name)
	for _, step := range routine.Steps {
		fmt.Println("  " + cli.FormatStepLine(step))
	}

	if routine.AllResolved() {
		fmt.Println("\nAll steps resolved.")
		return nil
	}

	if prev, err := ctx.Store.GetRunSession(routine.ID); err == nil {
		if step := routine.StepByID(prev.CurrentStepID); step != nil {
			fmt.Printf("\nCurrent step: %s (spent %s)\n", step.Name, utils.FormatDuration(step.ActualDuration))
		}
	}
	return nil
}

type RunResetCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
}

func (c *RunResetCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}

	if err := run.Reset(ctx.Store, routine.ID); err != nil {
		return err
	}

	ctx.PushRoutine(context.Background(), routine.ID)

	fmt.Printf("Reset %q: all steps are pending again.\n", routine.Name)
	return nil
}

func printCurrent(session *run.Session) {
	current := session.Current()
	line := fmt.Sprintf("Current step: %s", current.Name)
	if current.PlannedDuration > 0 {
		line += fmt.Sprintf(" (planned %s)", utils.FormatDuration(current.PlannedDuration))
	}
	fmt.Println(line)
}

func findStep(routine models.Routine, ref string) (models.Step, error) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(routine.Steps) {
		routine.SortSteps()
		return routine.Steps[n-1], nil
	}
	for _, step := range routine.Steps {
		if step.Name == ref || step.ID == ref {
			return step, nil
		}
	}
	return models.Step{}, fmt.Errorf("no step %q in routine %q", ref, routine.Name)
}
