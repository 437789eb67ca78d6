package moods

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

type MoodLogCmd struct {
	Mood   int    `short:"m" help:"Mood on a 1-5 scale." default:"0"`
	Energy int    `short:"e" help:"Energy on a 1-5 scale." default:"0"`
	Note   string `short:"n" help:"Optional note."`
}

func (c *MoodLogCmd) Run(ctx *cli.Context) error {
	// Missing values fall through to an interactive form
	if c.Mood == 0 || c.Energy == 0 {
		if err := c.promptForEntry(); err != nil {
			return err
		}
	}

	now := time.Now()
	entry := models.MoodEntry{
		ID:        uuid.New().String(),
		LoggedAt:  now,
		Mood:      c.Mood,
		Energy:    c.Energy,
		Note:      c.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid mood entry: %w", err)
	}

	if err := ctx.Store.AddMoodEntry(entry); err != nil {
		return err
	}

	ctx.PushMood(context.Background(), entry, constants.OpCreate)

	fmt.Printf("Logged mood %d/5, energy %d/5 (ID: %s)\n", entry.Mood, entry.Energy, entry.ID)
	return nil
}

func (c *MoodLogCmd) promptForEntry() error {
	scale := []huh.Option[int]{
		huh.NewOption("1 - very low", 1),
		huh.NewOption("2 - low", 2),
		huh.NewOption("3 - okay", 3),
		huh.NewOption("4 - good", 4),
		huh.NewOption("5 - great", 5),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How is your mood right now?").
				Options(scale...).
				Value(&c.Mood),
			huh.NewSelect[int]().
				Title("How is your energy?").
				Options(scale...).
				Value(&c.Energy),
			huh.NewText().
				Title("Anything you want to note?").
				CharLimit(400).
				Value(&c.Note),
		),
	)

	return form.Run()
}
