package system

import (
	"fmt"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/notifier"
)

type NotifyCmd struct {
	Text   string `arg:"" help:"Notification text to send."`
	DryRun bool   `help:"Print the notification to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if !settings.NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	if c.DryRun {
		fmt.Println("[DryRun] " + c.Text)
		return nil
	}

	return notifier.New().Notify(c.Text)
}
