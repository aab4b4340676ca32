package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/ogtodo/internal/backup"
	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/keyring"
	"github.com/julianstephens/ogtodo/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly failures are reported but do not fail the run.
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx.Context(), constants.HealthDBTimeout)
	defer cancel()
	if err := ctx.Store.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, err := migratorFor(ctx)
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx.Context())
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, err := migratorFor(ctx)
	if err != nil {
		return err
	}
	pending, err := runner.PendingCount(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to count pending migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending - run 'ogtodo migrate'", pending)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return fmt.Errorf("backups are only managed for SQLite databases")
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'ogtodo backup create'")
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("configured timezone %q is not valid", ctx.Config.Timezone)
	}
	return nil
}
