package routines

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/syncer"
)

type RoutineAddCmd struct {
	Name  string   `arg:"" help:"Routine name."`
	Steps []string `short:"s" help:"Step definition as 'name' or 'name:minutes'. Repeat for each step in order." required:""`
}

func (c *RoutineAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Store.GetRoutineByName(c.Name); err == nil {
		return fmt.Errorf("a routine named %q already exists", c.Name)
	}

	id := uuid.New().String()
	steps, err := cli.ParseSteps(id, c.Steps)
	if err != nil {
		return err
	}

	now := time.Now()
	routine := models.Routine{
		ID:        id,
		Name:      c.Name,
		Steps:     steps,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := routine.Validate(); err != nil {
		return fmt.Errorf("invalid routine: %w", err)
	}

	if err := ctx.Store.AddRoutine(routine); err != nil {
		return err
	}

	if m, err := models.NewMutation(constants.OpCreate, constants.EntityRoutine, routine.ID, routine); err == nil {
		// Queued for the next sync pass on failure; the local write stands either way
		_ = ctx.Sync.Push(context.Background(), m)
	}

	fmt.Printf("Added routine: %s (%d steps, ID: %s)\n", c.Name, len(steps), routine.ID)
	return nil
}

func syncHint(status syncer.Status) string {
	if status.Pending == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d changes pending sync)", status.Pending)
}
