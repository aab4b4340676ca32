package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/config"
	"github.com/julianstephens/ogtodo/internal/storage/sqlite"
)

func newContext(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:  store,
		Config: &config.Config{Timezone: "UTC"},
		Out:    out,
	}, out, dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, out, dbPath := newContext(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file was not created at %s: %v", dbPath, err)
	}
	if !strings.Contains(out.String(), "Initialized ogtodo storage at: "+dbPath) {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := newContext(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed: %v", err)
	}
}

func TestInitCmd_ForceRecreates(t *testing.T) {
	ctx, out, _ := newContext(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("expected deletion notice, got %q", out.String())
	}
	if err := ctx.Store.Ping(ctx.Context()); err != nil {
		t.Errorf("store unusable after forced init: %v", err)
	}
}

func TestMigrateCmd_UpToDate(t *testing.T) {
	ctx, out, _ := newContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "No migrations to apply") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestMigrateCmd_FreshDatabase(t *testing.T) {
	ctx, out, _ := newContext(t)

	if err := (&MigrateCmd{NoBackup: true}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "Successfully applied") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	gokeyring.MockInit()
	ctx, out, _ := newContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}

	// Missing backups is only a warning.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on healthy database: %v\n%s", err, out.String())
	}
	for _, want := range []string{"✓ Database reachable: OK", "✓ Migrations complete: OK", "⚠ Backups present: WARNING"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_UninitializedDB(t *testing.T) {
	gokeyring.MockInit()
	ctx, out, _ := newContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail when the database does not exist")
	}
	if !strings.Contains(out.String(), "⊘ Schema version: SKIPPED") {
		t.Errorf("dependent checks should be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_BadTimezone(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, _ := newContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}
	ctx.Config.Timezone = "Nowhere/Special"

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on an invalid timezone")
	}
}
