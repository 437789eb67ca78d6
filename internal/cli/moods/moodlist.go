package moods

import (
	"context"
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/utils"
)

type MoodListCmd struct {
	Days int  `short:"d" help:"How many days back to list." default:"7"`
	All  bool `help:"Include soft-deleted entries."`
}

func (c *MoodListCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		return err
	}
	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return err
	}

	endDay := now.Format(constants.DateFormat)
	startDay := now.AddDate(0, 0, -(c.Days - 1)).Format(constants.DateFormat)

	entries, err := ctx.Store.GetMoodEntriesForRange(startDay, endDay, c.All)
	if err != nil {
		return fmt.Errorf("failed to list mood entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Printf("No mood entries between %s and %s.\n", startDay, endDay)
		return nil
	}

	fmt.Printf("Mood entries (%s to %s):\n\n", startDay, endDay)
	day := ""
	for _, entry := range entries {
		if d := entry.Day(); d != day {
			day = d
			if day == today {
				fmt.Printf("%s (today)\n", day)
			} else {
				fmt.Printf("%s\n", day)
			}
		}

		marker := ""
		if entry.DeletedAt != nil {
			marker = "  [deleted]"
		}
		line := fmt.Sprintf("  %s  mood %d/5  energy %d/5%s",
			entry.LoggedAt.Format("15:04"), entry.Mood, entry.Energy, marker)
		if entry.Note != "" {
			line += fmt.Sprintf("  %q", entry.Note)
		}
		fmt.Println(line)
	}

	return nil
}

type MoodDeleteCmd struct {
	ID string `arg:"" help:"Mood entry ID to delete."`
}

func (c *MoodDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetMoodEntry(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find mood entry %s: %w", c.ID, err)
	}

	if err := ctx.Store.DeleteMoodEntry(c.ID); err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}

	ctx.PushMood(context.Background(), entry, constants.OpDelete)

	fmt.Printf("Deleted mood entry from %s\n", entry.LoggedAt.Format(time.DateTime))
	return nil
}

type MoodRestoreCmd struct {
	ID string `arg:"" help:"Mood entry ID to restore."`
}

func (c *MoodRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.RestoreMoodEntry(c.ID); err != nil {
		return fmt.Errorf("failed to restore mood entry: %w", err)
	}

	if entry, err := ctx.Store.GetMoodEntry(c.ID); err == nil {
		ctx.PushMood(context.Background(), entry, constants.OpUpdate)
	}

	fmt.Printf("Restored mood entry: %s\n", c.ID)
	return nil
}
