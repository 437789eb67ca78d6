package settings

import (
	"fmt"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	fmt.Println("Settings:")
	fmt.Printf("  timezone:       %s\n", settings.Timezone)
	fmt.Printf("  sync-interval:  %d min\n", settings.SyncIntervalMin)
	fmt.Printf("  auto-sync:      %v\n", settings.AutoSyncEnabled)
	fmt.Printf("  notifications:  %v\n", settings.NotificationsEnabled)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting to change (timezone|sync-interval|auto-sync|notifications)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	switch c.Key {
	case "timezone":
		if _, err := utils.LoadLocation(c.Value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Value, err)
		}
		settings.Timezone = c.Value
	case "sync-interval":
		n, err := utils.ParseMinutes(c.Value)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("sync interval must be at least 1 minute")
		}
		settings.SyncIntervalMin = n
	case "auto-sync":
		b, err := parseBool(c.Value)
		if err != nil {
			return err
		}
		settings.AutoSyncEnabled = b
	case "notifications":
		b, err := parseBool(c.Value)
		if err != nil {
			return err
		}
		settings.NotificationsEnabled = b
	default:
		return fmt.Errorf("unknown setting %q", c.Key)
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}

	fmt.Printf("Set %s to %s\n", c.Key, c.Value)
	return nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "on", "yes", "1":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected a boolean value, got %q", s)
}
