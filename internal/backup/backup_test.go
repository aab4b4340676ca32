package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/ogtodo/internal/constants"
)

// tickingClock advances one second per call so every backup gets its own name.
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ogtodo.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE todos (id TEXT PRIMARY KEY, date TEXT)`,
		`INSERT INTO todos (id, date) VALUES ('t1', '2026-03-08'), ('t2', '2026-03-09')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

func countTodos(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM todos").Scan(&count); err != nil {
		t.Fatalf("failed to count todos in %s: %v", path, err)
	}
	return count
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(tickingClock(time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))))

	info, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if want := filepath.Join(filepath.Dir(dbPath), constants.BackupDirName); mgr.Dir() != want {
		t.Errorf("Dir() = %s, want %s", mgr.Dir(), want)
	}
	if info.Name != "ogtodo-20260309-080001.db" {
		t.Errorf("unexpected backup name %s", info.Name)
	}
	if info.Size == 0 {
		t.Error("backup size should be recorded")
	}
	if got := countTodos(t, info.Path); got != 2 {
		t.Errorf("expected 2 rows in backup, got %d", got)
	}
}

func TestCreateSameSecondAddsCounter(t *testing.T) {
	dbPath := setupTestDB(t)
	fixed := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	first, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.Path == second.Path {
		t.Fatal("backups in the same second must not overwrite each other")
	}
	if second.Name != "ogtodo-20260309-080000-1.db" {
		t.Errorf("unexpected name %s", second.Name)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 || backups[0].Name != second.Name {
		t.Errorf("List() = %+v, want the counter backup first", backups)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(tickingClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))))

	var last Info
	for i := 0; i < constants.MaxBackups+5; i++ {
		info, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		last = info
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backup %d is newer than backup %d", i, i-1)
		}
	}

	latest, err := mgr.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if latest.Path != last.Path {
		t.Errorf("Latest() = %s, want %s", latest.Path, last.Path)
	}
}

func TestWithRetention(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithRetention(2), WithClock(tickingClock(time.Now())))
	for i := 0; i < 4; i++ {
		if _, err := mgr.Create(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	backups, _ := mgr.List()
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(filepath.Join(dir, "ogtodo.db"), WithDir(dir))

	for _, name := range []string{
		"ogtodo-20260309-080000.db",
		"ogtodo-20260309-080000-2.db",
		"ogtodo-not-a-date.db",
		"ogtodo-20260309-080000-x.db",
		"other-20260309-080000.db",
		"ogtodo-20260309-080000.txt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %+v", backups)
	}
}

func TestListMissingDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "ogtodo.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
	if _, err := mgr.Latest(); err != ErrNoBackups {
		t.Errorf("Latest() error = %v, want ErrNoBackups", err)
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager("/data/ogtodo.db")
	if got := mgr.Resolve("ogtodo-20260309-080000.db"); got != "/data/backups/ogtodo-20260309-080000.db" {
		t.Errorf("Resolve(name) = %s", got)
	}
	if got := mgr.Resolve("/elsewhere/copy.db"); got != "/elsewhere/copy.db" {
		t.Errorf("Resolve(path) = %s", got)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(context.Background()); err == nil {
		t.Error("expected an error for a missing database")
	}
}
