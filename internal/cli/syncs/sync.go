package syncs

import (
	"context"
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/cli"
)

type SyncNowCmd struct {
	Timeout time.Duration `help:"Give up on the pass after this long." default:"30s"`
}

func (c *SyncNowCmd) Run(ctx *cli.Context) error {
	runCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	result, err := ctx.Sync.SyncNow(runCtx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("Replayed %d, deferred %d, conflicts %d\n",
		result.Replayed, result.Deferred, len(result.Conflicts))

	for _, conflict := range result.Conflicts {
		fmt.Printf("  ✗ %s %s %s: %v\n",
			conflict.Mutation.Op, conflict.Mutation.Entity, conflict.Mutation.EntityID, conflict.Err)
	}

	if result.Deferred > 0 {
		fmt.Println("Deferred changes stay queued and will retry on the next pass.")
	}
	return nil
}

type SyncStatusCmd struct{}

func (c *SyncStatusCmd) Run(ctx *cli.Context) error {
	status, err := ctx.Sync.Status()
	if err != nil {
		return fmt.Errorf("failed to read sync status: %w", err)
	}

	if status.Pending == 0 {
		fmt.Println("✓ All local changes are synced.")
	} else {
		fmt.Printf("%d local changes pending sync.\n", status.Pending)
	}

	if status.LastSyncedAt != nil {
		fmt.Printf("Last synced: %s\n", status.LastSyncedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Never synced on this device.")
	}

	if status.InFlight {
		fmt.Println("A sync pass is currently in flight.")
	}
	if status.LastError != "" {
		fmt.Printf("Last sync error: %s\n", status.LastError)
	}
	return nil
}
