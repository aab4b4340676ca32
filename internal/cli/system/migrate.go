package system

import (
	"fmt"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/migration"
)

// Migratable is a store that exposes its schema migrations.
type Migratable interface {
	Migrator() (*migration.Runner, error)
}

func migratorFor(ctx *cli.Context) (*migration.Runner, error) {
	m, ok := ctx.Store.(Migratable)
	if !ok {
		return nil, fmt.Errorf("storage does not support migrations")
	}
	return m.Migrator()
}

type MigrateCmd struct {
	NoBackup bool `help:"Skip the backup taken before migrating a SQLite database."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	runner, err := migratorFor(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer ctx.Store.Close()

	pending, err := runner.PendingCount(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to check pending migrations: %w", err)
	}
	if pending == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}

	if !c.NoBackup {
		ctx.PerformAutomaticBackup()
	}

	count, err := runner.ApplyMigrations(ctx.Context(), func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	return nil
}
