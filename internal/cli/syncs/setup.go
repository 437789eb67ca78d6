package syncs

import (
	"context"
	"fmt"
	"time"

	"github.com/uniplan/uniplan/internal/cli"
	"github.com/uniplan/uniplan/internal/remote"
)

// SyncSetupCmd creates the remote schema so a fresh backend can start
// accepting replayed mutations.
type SyncSetupCmd struct{}

func (c *SyncSetupCmd) Run(ctx *cli.Context) error {
	connStr, err := cli.ResolveRemoteConnString()
	if err != nil {
		return err
	}
	if connStr == "" {
		return fmt.Errorf("no remote configured; store a connection string with 'uniplan keyring set' first")
	}

	svc := remote.NewPostgresService(connStr)
	if err := svc.Open(); err != nil {
		return fmt.Errorf("failed to connect to remote: %w", err)
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Ping(pingCtx); err != nil {
		return fmt.Errorf("remote is not reachable: %w", err)
	}

	if err := svc.Migrate(func(msg string) {
		fmt.Println(msg)
	}); err != nil {
		return fmt.Errorf("remote migration failed: %w", err)
	}

	fmt.Println("✓ Remote schema is up to date.")
	return nil
}
