package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestMigrationManager(t *testing.T) (*MigrationManager, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "migration_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	dbPath := filepath.Join(tempDir, "test.db")
	mm := NewMigrationManager(DriverSQLite, dbPath, filepath.Join("..", "..", "migrations"), newTestLogger())
	return mm, tempDir
}

func TestMigrationManager_UpStatusDown(t *testing.T) {
	mm, _ := newTestMigrationManager(t)

	info, err := mm.GetMigrationStatus()
	if err != nil {
		t.Fatalf("GetMigrationStatus() failed: %v", err)
	}
	if info.Applied {
		t.Errorf("Expected no applied migrations on a fresh database, got version %d", info.Version)
	}

	if err := mm.ValidateSchema(); err == nil {
		t.Error("Expected ValidateSchema() to fail before migrations")
	}

	if err := mm.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}

	// second run is a no-op
	if err := mm.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() should be idempotent: %v", err)
	}

	info, err = mm.GetMigrationStatus()
	if err != nil {
		t.Fatalf("GetMigrationStatus() failed: %v", err)
	}
	if !info.Applied || info.Version != 1 || info.Dirty {
		t.Errorf("Unexpected status after migrations: %+v", info)
	}

	if err := mm.ValidateSchema(); err != nil {
		t.Errorf("ValidateSchema() failed: %v", err)
	}

	if err := mm.RollbackMigration(); err != nil {
		t.Fatalf("RollbackMigration() failed: %v", err)
	}

	if err := mm.ValidateSchema(); err == nil {
		t.Error("Expected ValidateSchema() to fail after rollback")
	}

	if err := mm.RollbackMigration(); err == nil {
		t.Error("Expected error when nothing is left to roll back")
	}
}

func TestMigrationManager_Backup(t *testing.T) {
	mm, tempDir := newTestMigrationManager(t)
	mm.BackupEnabled = true

	// nothing to back up yet
	if err := mm.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}

	if err := mm.RollbackMigration(); err != nil {
		t.Fatalf("RollbackMigration() failed: %v", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read temp dir: %v", err)
	}

	found := false
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "test.db.backup_") {
			found = true
		}
	}
	if !found {
		t.Error("Expected a backup file after rollback")
	}
}

func TestMigrationManager_MissingDirectory(t *testing.T) {
	mm, tempDir := newTestMigrationManager(t)
	mm.migrationsPath = filepath.Join(tempDir, "does-not-exist")

	if err := mm.RunMigrations(); err == nil {
		t.Error("Expected error for missing migrations directory")
	}
}
