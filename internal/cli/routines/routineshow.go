package routines

import (
	"fmt"

	"github.com/uniplan/uniplan/internal/cli"
)

type RoutineShowCmd struct {
	Routine string `arg:"" help:"Routine ID or name."`
}

func (c *RoutineShowCmd) Run(ctx *cli.Context) error {
	routine, err := ctx.ResolveRoutine(c.Routine)
	if err != nil {
		return err
	}
	routine.SortSteps()

	fmt.Printf("%s (ID: %s)\n", routine.Name, routine.ID)
	if routine.DeletedAt != nil {
		fmt.Printf("Deleted at: %s\n", routine.DeletedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	for _, step := range routine.Steps {
		fmt.Println("  " + cli.FormatStepLine(step))
	}

	if routine.AllResolved() {
		fmt.Println("\nAll steps resolved. Use 'uniplan run reset' to start over.")
	}
	return nil
}
