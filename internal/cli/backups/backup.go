package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/ogtodo/internal/backup"
	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/constants"
)

var errNotSQLite = errors.New("backups are only supported for SQLite databases")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if !ctx.IsSQLite() {
		return nil, errNotSQLite
	}
	return backup.NewManager(ctx.Store.GetConfigPath(), backup.WithClock(ctx.Clock())), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", info.Name)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	list, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CREATED", "FILE", "SIZE")
	for _, b := range list {
		t.Row(
			b.Timestamp.In(ctx.Location()).Format("2006-01-02 15:04:05"),
			b.Name,
			fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0),
		)
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n", len(list), constants.MaxBackups)
	ctx.Println(t.Render())
	ctx.Printf("Backup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Backup filename, path, or 'latest'."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	path, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.Println("   Stop every ogtodo process (including the TUI and API server) first.")
		ctx.Println("   A backup of your current database will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", path)

		confirmed := false
		if err := huh.NewConfirm().Title("Continue?").Value(&confirmed).Run(); err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	safety, err := mgr.Restore(ctx.Context(), path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println("✓ Database restored successfully!")
	if safety.Name != "" {
		ctx.Printf("  Previous database saved as: %s\n", safety.Name)
	}
	return nil
}

// resolve accepts 'latest', a path relative to the working directory, or a
// name in the backup directory.
func (c *BackupRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	if strings.EqualFold(c.BackupFile, "latest") {
		info, err := mgr.Latest()
		if err != nil {
			return "", err
		}
		return info.Path, nil
	}

	if _, err := os.Stat(c.BackupFile); err == nil {
		return filepath.Abs(c.BackupFile)
	}
	path := mgr.Resolve(c.BackupFile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup file not found: tried %s and %s", c.BackupFile, mgr.Dir())
	}
	return path, nil
}
