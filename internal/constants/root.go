package constants

import "time"

const (
	AppName            = "ogtodo"
	DefaultKeyringUser = "database-connection"
	JWTSecretKeyUser   = "jwt-secret"
	DefaultConfigDir   = "~/.config/ogtodo"
	DefaultDBPath      = "~/.config/ogtodo/ogtodo.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"
	// DueDateTimeFormat is the local due date format accepted by the TUI and CLI.
	DueDateTimeFormat = "2006-01-02 15:04"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "ogtodo-"
	BackupFileSuffix = ".db"

	// Workspace constants
	DefaultAutosaveDebounce = time.Second

	// Commitment constants
	DueSoonWindow = 7 * 24 * time.Hour

	// Auth constants
	DefaultSessionTTL = 7 * 24 * time.Hour
	MinPasswordLength = 8

	// Server constants
	DefaultListenAddr  = ":8080"
	DefaultCORSOrigin  = "*"
	HealthDBTimeout    = 2 * time.Second
	ShutdownTimeout    = 10 * time.Second
	DefaultTimezone    = "Local"
	DefaultLanguage    = "en"
	ContextUserIDKey   = "user_id"
	ContextSessionKey  = "session_id"
	ContextLanguageKey = "lang"
)
