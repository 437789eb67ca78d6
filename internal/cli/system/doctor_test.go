package system

import (
	"strings"
	"testing"

	"github.com/uniplan/uniplan/internal/cli"
)

func TestCheckKeyring(t *testing.T) {
	oldKeyringAvailable := keyringAvailable
	defer func() { keyringAvailable = oldKeyringAvailable }()

	keyringAvailable = func() bool { return true }
	if err := checkKeyring(); err != nil {
		t.Errorf("expected available keyring to pass: %v", err)
	}

	keyringAvailable = func() bool { return false }
	err := checkKeyring()
	if err == nil {
		t.Fatal("expected error when the keyring is unavailable")
	}
	if !strings.Contains(err.Error(), cli.RemoteConnEnvVar) {
		t.Errorf("expected the error to mention the env var fallback, got %v", err)
	}
}
