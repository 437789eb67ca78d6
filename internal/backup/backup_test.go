package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/uniplan/uniplan/internal/constants"
)

func createTestDB(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE routines (id TEXT PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO routines (id, name) VALUES ('r1', 'Morning')`); err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}
}

func TestCreateBackup(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "uniplan.db")
	createTestDB(t, dbPath)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file not created: %v", err)
	}

	// The backup is a readable database with the data intact
	db, err := sql.Open("sqlite", backupPath+"?mode=ro")
	if err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow(`SELECT name FROM routines WHERE id = 'r1'`).Scan(&name); err != nil {
		t.Fatalf("failed to read from backup: %v", err)
	}
	if name != "Morning" {
		t.Errorf("expected Morning, got %s", name)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error backing up a missing database")
	}
}

func TestListBackupsSortedNewestFirst(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "uniplan.db")
	createTestDB(t, dbPath)

	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}

	// Fabricate backup files with known timestamps
	stamps := []string{"20260101-0900", "20260301-0900", "20260201-0900"}
	for _, stamp := range stamps {
		name := fmt.Sprintf("%s%s%s", constants.BackupFilePrefix, stamp, constants.BackupFileSuffix)
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	// Noise that must be ignored
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}

	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at position %d", i)
		}
	}
	if backups[0].Timestamp.Month() != time.March {
		t.Errorf("expected March backup first, got %v", backups[0].Timestamp)
	}
}

func TestListBackupsEmptyDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "uniplan.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRotateBackups(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "uniplan.db")
	createTestDB(t, dbPath)

	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < constants.MaxBackups+5; i++ {
		stamp := base.AddDate(0, 0, i).Format("20060102-1504")
		name := fmt.Sprintf("%s%s%s", constants.BackupFilePrefix, stamp, constants.BackupFileSuffix)
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	if err := mgr.rotateBackups(); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}

	// The newest ones survive
	newest := base.AddDate(0, 0, constants.MaxBackups+4)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("expected newest backup %v kept, got %v", newest, backups[0].Timestamp)
	}
}

func TestRestoreBackup(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "uniplan.db")
	createTestDB(t, dbPath)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	// Change the live database after the backup
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE routines SET name = 'Changed' WHERE id = 'r1'`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow(`SELECT name FROM routines WHERE id = 'r1'`).Scan(&name); err != nil {
		t.Fatalf("failed to read restored database: %v", err)
	}
	if name != "Morning" {
		t.Errorf("expected restored value Morning, got %s", name)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "uniplan.db"))
	if err := mgr.RestoreBackup("/nonexistent/backup.db"); err == nil {
		t.Fatal("expected error restoring a missing backup")
	}
}

func TestRestoreCorruptedBackup(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "uniplan.db")
	createTestDB(t, dbPath)

	badPath := filepath.Join(tempDir, "bad.db")
	if err := os.WriteFile(badPath, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(dbPath)
	if err := mgr.RestoreBackup(badPath); err == nil {
		t.Fatal("expected error restoring a corrupted backup")
	}
}
