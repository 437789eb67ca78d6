package notifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

// Mock Process
type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(dir, "com.uniplan.tray") {
		t.Errorf("expected tray identifier suffix, got %s", dir)
	}
}

func TestGetTrayAppConfigDirRedirect(t *testing.T) {
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}

	trayDir := filepath.Join(tempDir, "com.uniplan.tray")
	if err := os.MkdirAll(trayDir, 0700); err != nil {
		t.Fatal(err)
	}

	redirect := filepath.Join(tempDir, "custom-lockfiles")
	settings := map[string]any{
		"settings": map[string]any{"lockfile_dir": redirect},
	}
	data, _ := json.Marshal(settings)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), data, 0600); err != nil {
		t.Fatal(err)
	}

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != redirect {
		t.Errorf("expected redirected dir %s, got %s", redirect, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "uniplan-tray"}, nil
	}

	lockfile := filepath.Join(t.TempDir(), "uniplan-notifier.lock")
	if err := os.WriteFile(lockfile, []byte("8612|1234|secret-token"), 0600); err != nil {
		t.Fatal(err)
	}

	port, secret, err := findAndValidateTrayProcess(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8612" || secret != "secret-token" {
		t.Errorf("got port %s, secret %s", port, secret)
	}
}

func TestFindAndValidateTrayProcessErrors(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "uniplan-tray"}, nil
	}

	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "8612|1234"},
		{"empty port", "|1234|secret"},
		{"bad port", "notaport|1234|secret"},
		{"port out of range", "70000|1234|secret"},
		{"bad pid", "8612|notapid|secret"},
		{"empty secret", "8612|1234| "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lockfile := filepath.Join(t.TempDir(), "uniplan-notifier.lock")
			if err := os.WriteFile(lockfile, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, _, err := findAndValidateTrayProcess(lockfile); err == nil {
				t.Errorf("expected error for %q", tt.content)
			}
		})
	}
}

func TestFindAndValidateTrayProcessWrongExecutable(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "impostor"}, nil
	}

	lockfile := filepath.Join(t.TempDir(), "uniplan-notifier.lock")
	if err := os.WriteFile(lockfile, []byte("8612|1234|secret"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := findAndValidateTrayProcess(lockfile); err == nil {
		t.Error("expected error for wrong executable name")
	}
}

func TestFindAndValidateTrayProcessMissingLockfile(t *testing.T) {
	if _, _, err := findAndValidateTrayProcess(filepath.Join(t.TempDir(), "missing.lock")); err == nil {
		t.Error("expected error for missing lockfile")
	}
}

func TestSendNotification(t *testing.T) {
	var gotSecret string
	var gotPayload WebhookPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Uniplan-Secret")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	port := strings.TrimPrefix(server.URL, "http://127.0.0.1:")

	payload := WebhookPayload{Text: "Step complete", DurationMs: 5000}
	if err := sendNotification(port, "hush", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotSecret != "hush" {
		t.Errorf("expected secret header hush, got %s", gotSecret)
	}
	if gotPayload.Text != "Step complete" || gotPayload.DurationMs != 5000 {
		t.Errorf("unexpected payload: %+v", gotPayload)
	}
}

func TestSendNotificationRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad secret", http.StatusUnauthorized)
	}))
	defer server.Close()

	port := strings.TrimPrefix(server.URL, "http://127.0.0.1:")

	err := sendNotification(port, "wrong", WebhookPayload{Text: "x"})
	if err == nil {
		t.Fatal("expected error for rejected notification")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}
