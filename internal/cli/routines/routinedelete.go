package routines

import (
	"context"
	"fmt"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

type RoutineDeleteCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
}

func (c *RoutineDeleteCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteRoutine(routine.ID); err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}

	if m, err := models.NewMutation(constants.OpDelete, constants.EntityRoutine, routine.ID, nil); err == nil {
		_ = ctx.Sync.Push(context.Background(), m)
	}

	fmt.Printf("Deleted routine: %s (ID: %s)\n", routine.Name, routine.ID)
	fmt.Println("Restore it with 'uniplan restore routine'.")
	return nil
}

type RoutineRestoreCmd struct {
	ID string `arg:"" help:"Routine ID to restore."`
}

func (c *RoutineRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.RestoreRoutine(c.ID); err != nil {
		return fmt.Errorf("failed to restore routine: %w", err)
	}

	ctx.PushRoutine(context.Background(), c.ID)

	fmt.Printf("Restored routine: %s\n", c.ID)
	return nil
}
