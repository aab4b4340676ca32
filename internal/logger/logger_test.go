package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want log.Level
	}{
		{"default", Config{}, log.WarnLevel},
		{"server", Config{Stderr: true}, log.InfoLevel},
		{"debug wins", Config{Debug: true, Stderr: true}, log.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.level())
		})
	}
}

func TestInitCreatesLogFile(t *testing.T) {
	t.Cleanup(func() { current.Store(nil) })
	configDir := filepath.Join(t.TempDir(), "config")

	require.NoError(t, Init(Config{ConfigDir: configDir}))
	require.NotNil(t, current.Load())
	Warn("disk almost full", "free_mb", 12)

	data, err := os.ReadFile(filepath.Join(configDir, "logs", fileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk almost full")
	assert.Contains(t, string(data), "free_mb=12")
}

func TestInitLogDirOverride(t *testing.T) {
	t.Cleanup(func() { current.Store(nil) })
	logDir := filepath.Join(t.TempDir(), "custom-logs")

	require.NoError(t, Init(Config{ConfigDir: t.TempDir(), LogDir: logDir, Stderr: true}))
	Info("written to override dir")

	assert.FileExists(t, filepath.Join(logDir, fileName))
}

func TestInitFailsWhenDirIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	assert.Error(t, Init(Config{LogDir: filepath.Join(blocker, "logs")}))
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	t.Cleanup(func() { current.Store(nil) })
	var buf bytes.Buffer
	InitWriter(&buf, log.InfoLevel)

	Debug("hidden")
	Info("visible", "key", "value")
	Error("broken", "err", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "err=boom")
}

func TestCallsBeforeInitAreDropped(t *testing.T) {
	current.Store(nil)

	assert.NotPanics(t, func() {
		Debug("d")
		Info("i")
		Warn("w")
		Error("e")
	})
}
