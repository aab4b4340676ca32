package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/cli/account"
	"github.com/julianstephens/ogtodo/internal/cli/backups"
	"github.com/julianstephens/ogtodo/internal/cli/commitments"
	"github.com/julianstephens/ogtodo/internal/cli/system"
	"github.com/julianstephens/ogtodo/internal/config"
	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path" default:"~/.config/ogtodo/config.yaml"`
	Database string `help:"SQLite file path or PostgreSQL connection string. Passwords must NOT be embedded in the connection string; use .pgpass or the OS keyring instead." env:"OGTODO_DATABASE"`
	Debug    bool   `help:"Enable debug logging."`
	Email    string `help:"Account email for per-user commands." env:"OGTODO_EMAIL"`
	Password string `help:"Account password. Prompted for when empty." env:"OGTODO_PASSWORD"`

	Init    system.InitCmd    `cmd:"" help:"Initialize ogtodo storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Serve   system.ServeCmd   `cmd:"" help:"Run the HTTP API server."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Signup account.SignUpCmd `cmd:"" help:"Create an account."`
	Day    account.DayCmd    `cmd:"" help:"Show the todo for a day."`
	Streak account.StreakCmd `cmd:"" help:"Show the streak calendar for a month."`
	Stats  account.StatsCmd  `cmd:"" help:"Show profile and commitment statistics."`
	Export account.ExportCmd `cmd:"" help:"Export all account data."`

	Commitment struct {
		Add    commitments.AddCmd    `cmd:"" help:"Add a commitment."`
		List   commitments.ListCmd   `cmd:"" help:"List commitments." default:"1"`
		Done   commitments.DoneCmd   `cmd:"" help:"Mark a commitment as completed."`
		Delete commitments.DeleteCmd `cmd:"" help:"Delete a commitment."`
	} `cmd:"" help:"Manage commitments."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set          system.KeyringSetCmd          `cmd:"" help:"Store a PostgreSQL connection string."`
		Get          system.KeyringGetCmd          `cmd:"" help:"Show the stored connection string."`
		Delete       system.KeyringDeleteCmd       `cmd:"" help:"Remove the stored connection string."`
		RotateSecret system.KeyringRotateSecretCmd `cmd:"" name:"rotate-secret" help:"Replace the generated token signing secret."`
		Status       system.KeyringStatusCmd       `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily todos, streaks and commitments"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := run(kctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: CLI.Config})
	if err != nil {
		return err
	}
	if CLI.Database != "" {
		cfg.Database = CLI.Database
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: config.ExpandHome(constants.DefaultConfigDir),
		LogDir:    cfg.LogDir,
		Stderr:    kctx.Command() == "serve",
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbRef, err := cfg.ResolveDatabase()
	if err != nil {
		return err
	}
	store := cli.OpenStore(dbRef)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}()

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return kctx.Run(&cli.Context{
		Config:   cfg,
		Store:    store,
		Email:    CLI.Email,
		Password: CLI.Password,
		Base:     base,
	})
}
