// Package config resolves runtime settings from defaults, an optional YAML
// file, a .env file and OGTODO_* environment variables, in that order.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/keyring"
	"github.com/julianstephens/ogtodo/internal/storage/postgres"
	"github.com/julianstephens/ogtodo/internal/utils"
)

const EnvPrefix = "OGTODO"

type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database         string        `mapstructure:"database"`
	ListenAddr       string        `mapstructure:"listen_addr"`
	Timezone         string        `mapstructure:"timezone"`
	AutosaveDebounce time.Duration `mapstructure:"autosave_debounce"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	CORSOrigin       string        `mapstructure:"cors_origin"`
	Language         string        `mapstructure:"language"`
	Debug            bool          `mapstructure:"debug"`
	LogDir           string        `mapstructure:"log_dir"`
}

type LoadOptions struct {
	// ConfigFile defaults to <DefaultConfigDir>/config.yaml. A missing file is not an error.
	ConfigFile string
	// EnvFile defaults to .env in the working directory. A missing file is not an error.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database", "")
	v.SetDefault("listen_addr", constants.DefaultListenAddr)
	v.SetDefault("timezone", constants.DefaultTimezone)
	v.SetDefault("autosave_debounce", constants.DefaultAutosaveDebounce)
	v.SetDefault("session_ttl", constants.DefaultSessionTTL)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cors_origin", constants.DefaultCORSOrigin)
	v.SetDefault("language", constants.DefaultLanguage)
	v.SetDefault("debug", false)
	v.SetDefault("log_dir", "")
}

// DefaultConfigFile returns ~/.config/ogtodo/config.yaml.
func DefaultConfigFile() string {
	return filepath.Join(ExpandHome(constants.DefaultConfigDir), "config.yaml")
}

// Load builds the configuration. Environment variables are named OGTODO_<KEY>,
// for example OGTODO_LISTEN_ADDR.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFile
	if path == "" {
		path = DefaultConfigFile()
	}
	v.SetConfigFile(ExpandHome(path))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.LogDir = ExpandHome(cfg.LogDir)
	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.AutosaveDebounce <= 0 {
		return fmt.Errorf("autosave_debounce must be positive, got %s", c.AutosaveDebounce)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ResolveDatabase returns the database to open: the configured value, else a
// connection string stored in the OS keyring, else the default SQLite file.
// PostgreSQL connection strings with embedded passwords are rejected.
func (c *Config) ResolveDatabase() (string, error) {
	db := strings.TrimSpace(c.Database)
	if db == "" {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			return connStr, nil
		}
		return ExpandHome(constants.DefaultDBPath), nil
	}
	if postgres.IsConnString(db) {
		if _, err := postgres.ValidateConnString(db); err != nil {
			return "", err
		}
		return db, nil
	}
	return ExpandHome(db), nil
}

// ResolveJWTSecret returns the configured signing secret or one kept in the OS keyring.
func (c *Config) ResolveJWTSecret() ([]byte, error) {
	if c.JWTSecret != "" {
		return []byte(c.JWTSecret), nil
	}
	secret, err := keyring.EnsureJWTSecret()
	if err != nil {
		return nil, fmt.Errorf("no jwt_secret configured and keyring failed: %w", err)
	}
	return []byte(secret), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
