package routines

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/utils"
)

type StepAddCmd struct {
	Routine  string `arg:"" help:"Routine ID or name."`
	Name     string `arg:"" help:"Step name."`
	Duration int    `short:"d" help:"Planned duration in minutes." default:"0"`
	At       int    `help:"Insert position (1-based). Appends by default." default:"0"`
}

func (c *StepAddCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}
	routine.SortSteps()

	dur, err := utils.ParseDurationMinutes(c.Duration)
	if err != nil {
		return err
	}

	step := models.Step{
		ID:              uuid.New().String(),
		RoutineID:       routine.ID,
		Name:            c.Name,
		PlannedDuration: dur,
		Status:          constants.StepPending,
	}

	pos := len(routine.Steps)
	if c.At > 0 && c.At <= len(routine.Steps) {
		pos = c.At - 1
	}

	routine.Steps = append(routine.Steps[:pos], append([]models.Step{step}, routine.Steps[pos:]...)...)
	for i := range routine.Steps {
		routine.Steps[i].OrderIndex = i
	}
	routine.UpdatedAt = time.Now()

	if err := routine.Validate(); err != nil {
		return fmt.Errorf("invalid routine: %w", err)
	}
	if err := ctx.Store.UpdateRoutine(routine); err != nil {
		return err
	}

	ctx.PushRoutine(context.Background(), routine.ID)

	fmt.Printf("Added step %q to %s at position %d\n", c.Name, routine.Name, pos+1)
	return nil
}
