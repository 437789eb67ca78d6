package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/uniplan/uniplan/internal/keyring"
	"github.com/uniplan/uniplan/internal/remote"
)

// RemoteConnEnvVar overrides the keyring-stored connection string.
const RemoteConnEnvVar = "UNIPLAN_DB_CONNECTION"

// ResolveRemoteConnString finds the remote connection string: the
// environment variable wins, then the OS keyring. Returns "" when no remote
// is configured, which is a normal offline-only setup.
func ResolveRemoteConnString() (string, error) {
	if connStr := os.Getenv(RemoteConnEnvVar); connStr != "" {
		return connStr, nil
	}

	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrKeyringUnavailable) {
			return "", nil
		}
		return "", err
	}
	return connStr, nil
}

// ValidateExplicitConnString rejects connection strings passed on the
// command line with embedded credentials; those belong in the keyring or
// the environment, not in shell history.
func ValidateExplicitConnString(connStr string) error {
	if !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") {
		return nil
	}
	if remote.HasEmbeddedCredentials(connStr) {
		return fmt.Errorf("connection strings with embedded credentials are not allowed on the command line; use 'uniplan keyring set' or %s", RemoteConnEnvVar)
	}
	return nil
}
