package routines

import (
	"fmt"

	"github.com/uniplan/uniplan/internal/cli"
)

type RoutineListCmd struct {
	All bool `help:"Include soft-deleted routines."`
}

func (c *RoutineListCmd) Run(ctx *cli.Context) error {
	routines, err := ctx.Store.GetAllRoutines(c.All)
	if err != nil {
		return fmt.Errorf("failed to list routines: %w", err)
	}

	if len(routines) == 0 {
		fmt.Println("No routines found. Add one with 'uniplan routine add'.")
		return nil
	}

	hint := ""
	if status, err := ctx.Sync.Status(); err == nil {
		hint = syncHint(status)
	}
	fmt.Printf("Routines (%d)%s:\n\n", len(routines), hint)

	for _, routine := range routines {
		done := 0
		var planned int
		for _, step := range routine.Steps {
			if step.Status.Terminal() {
				done++
			}
			planned += int(step.PlannedDuration.Minutes())
		}

		marker := ""
		if routine.DeletedAt != nil {
			marker = "  [deleted]"
		}
		fmt.Printf("  %s%s\n", routine.Name, marker)
		fmt.Printf("    %d/%d steps resolved, %d min planned (ID: %s)\n",
			done, len(routine.Steps), planned, routine.ID)
	}

	return nil
}
