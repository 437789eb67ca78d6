package prefs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/models"
)

type PrefSetCmd struct {
	Category  string `arg:"" help:"Sensory category (sound|light|texture|motion)."`
	Label     string `arg:"" help:"What the preference is about, e.g. 'background noise'."`
	Intensity int    `arg:"" help:"1 (avoid) to 5 (seek out)."`
}

func (c *PrefSetCmd) Run(ctx *cli.Context) error {
	pref := models.SensoryPreference{
		ID:        uuid.New().String(),
		Category:  models.PrefCategory(c.Category),
		Label:     c.Label,
		Intensity: c.Intensity,
		UpdatedAt: time.Now(),
	}

	if err := pref.Validate(); err != nil {
		return fmt.Errorf("invalid preference: %w", err)
	}

	// Saving by (category, label) keeps one row per preference; reuse the
	// existing id so the remote upserts instead of duplicating.
	if existing, err := ctx.Store.GetAllPreferences(); err == nil {
		for _, p := range existing {
			if p.Category == pref.Category && p.Label == pref.Label {
				pref.ID = p.ID
				break
			}
		}
	}

	if err := ctx.Store.SavePreference(pref); err != nil {
		return err
	}

	ctx.PushPreference(context.Background(), pref, constants.OpUpdate)

	fmt.Printf("Set %s preference %q to %d/5\n", pref.Category, pref.Label, pref.Intensity)
	return nil
}

type PrefListCmd struct{}

func (c *PrefListCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetAllPreferences()
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}

	if len(prefs) == 0 {
		fmt.Println("No sensory preferences recorded.")
		return nil
	}

	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].Category != prefs[j].Category {
			return prefs[i].Category < prefs[j].Category
		}
		return prefs[i].Label < prefs[j].Label
	})

	category := models.PrefCategory("")
	for _, pref := range prefs {
		if pref.Category != category {
			category = pref.Category
			fmt.Printf("%s:\n", category)
		}
		fmt.Printf("  %-24s %d/5 (ID: %s)\n", pref.Label, pref.Intensity, pref.ID)
	}
	return nil
}

type PrefDeleteCmd struct {
	ID string `arg:"" help:"Preference ID to delete."`
}

func (c *PrefDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeletePreference(c.ID); err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}

	ctx.PushPreference(context.Background(), models.SensoryPreference{ID: c.ID}, constants.OpDelete)

	fmt.Printf("Deleted preference: %s\n", c.ID)
	return nil
}
