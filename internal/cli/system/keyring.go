package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/keyring"
	"github.com/julianstephens/ogtodo/internal/storage/postgres"
)

// KeyringSetCmd stores a PostgreSQL connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so embedded passwords are allowed here.
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Println("✓ Connection string stored in OS keyring")
	ctx.Println("  ogtodo will use it whenever no database is configured")
	return nil
}

// KeyringGetCmd prints the stored connection string with its password masked.
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'ogtodo keyring set' to store one")
		}
		return err
	}
	ctx.Println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes the stored connection string.
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// KeyringRotateSecretCmd discards the generated token signing secret. A new
// one is created on next start, which invalidates every issued token.
type KeyringRotateSecretCmd struct{}

func (cmd *KeyringRotateSecretCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteJWTSecret()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	secret, err := keyring.EnsureJWTSecret()
	if err != nil {
		return err
	}
	ctx.Printf("✓ Token signing secret rotated (%d chars). Existing sessions are no longer valid.\n", len(secret))
	return nil
}

// KeyringStatusCmd reports keyring availability and what is stored.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	entries := []struct {
		label string
		get   func() (string, error)
	}{
		{"Connection string", keyring.GetConnectionString},
		{"Token signing secret", keyring.GetJWTSecret},
	}
	for _, e := range entries {
		_, err := e.get()
		switch {
		case err == nil:
			ctx.Printf("✓ %s is stored\n", e.label)
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Printf("ℹ %s is not stored\n", e.label)
		default:
			ctx.Printf("⚠ %s: %v\n", e.label, err)
		}
	}
	return nil
}

// maskPassword hides the password in URL and key=value connection strings.
func maskPassword(connStr string) string {
	if scheme, rest, ok := strings.Cut(connStr, "://"); ok {
		at := strings.LastIndex(rest, "@")
		if at == -1 {
			return connStr
		}
		user, _, hasPassword := strings.Cut(rest[:at], ":")
		if !hasPassword {
			return connStr
		}
		return scheme + "://" + user + ":****" + rest[at:]
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
