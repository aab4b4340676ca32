package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func TestBackupRestoreWorkflow(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(tickingClock(time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))))

	original, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO todos (id, date) VALUES ('t3', '2026-03-10')"); err != nil {
		t.Fatalf("failed to modify database: %v", err)
	}
	db.Close()
	if got := countTodos(t, dbPath); got != 3 {
		t.Fatalf("expected 3 todos after modification, got %d", got)
	}

	safety, err := mgr.Restore(ctx, original.Path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := countTodos(t, dbPath); got != 2 {
		t.Errorf("expected 2 todos after restore, got %d", got)
	}
	if safety.Path == "" {
		t.Fatal("restore should back up the current database first")
	}
	if got := countTodos(t, safety.Path); got != 3 {
		t.Errorf("safety backup should hold the pre-restore state, got %d todos", got)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file should be gone")
	}
}

func TestRestoreRemovesStaleJournal(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(tickingClock(time.Now())))

	info, err := mgr.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dbPath+"-wal", []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(ctx, info.Path); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if _, err := os.Stat(dbPath + "-wal"); !os.IsNotExist(err) {
		t.Error("stale WAL file should be removed")
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	corrupted := filepath.Join(t.TempDir(), "corrupted.db")
	if err := os.WriteFile(corrupted, []byte("this is not a sqlite database"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(context.Background(), corrupted); err == nil {
		t.Error("expected restore of a corrupted backup to fail")
	}
	if got := countTodos(t, dbPath); got != 2 {
		t.Errorf("database must be untouched, got %d todos", got)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if _, err := mgr.Restore(context.Background(), "/nonexistent/backup.db"); err == nil {
		t.Error("expected an error for a missing backup")
	}
}
