// Package logger holds the process-wide charmbracelet logger. Output goes to a
// rotating file under the log directory and, for the server or --debug, to
// stderr as well. Calls made before Init are dropped.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileName = "ogtodo.log"
	prefix   = "ogtodo"

	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

var current atomic.Pointer[log.Logger]

type Config struct {
	Debug     bool
	ConfigDir string
	// LogDir replaces <ConfigDir>/logs.
	LogDir string
	// Stderr copies output to stderr at info level.
	Stderr bool
}

func (c Config) dir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return filepath.Join(c.ConfigDir, "logs")
}

func (c Config) level() log.Level {
	switch {
	case c.Debug:
		return log.DebugLevel
	case c.Stderr:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// Init replaces the process logger according to cfg.
func Init(cfg Config) error {
	dir := cfg.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	if cfg.Debug || cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}

	current.Store(log.NewWithOptions(out, log.Options{
		Level:           cfg.level(),
		Prefix:          prefix,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	}))
	return nil
}

// InitWriter sends output to w at the given level, without timestamps.
func InitWriter(w io.Writer, level log.Level) {
	current.Store(log.NewWithOptions(w, log.Options{Level: level, Prefix: prefix}))
}

func Debug(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if l := current.Load(); l != nil {
		l.Error(msg, keyvals...)
	}
}
