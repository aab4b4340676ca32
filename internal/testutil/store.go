// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/storage/sqlite"
)

// NewTestStore returns a migrated in-memory SQLite store closed at test cleanup.
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	return openStore(t, sqlite.MemoryPath)
}

// NewFileStore returns a migrated SQLite store backed by a file in t.TempDir().
func NewFileStore(t *testing.T) *sqlite.Store {
	t.Helper()
	return openStore(t, filepath.Join(t.TempDir(), "ogtodo.db"))
}

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// CreateUser inserts a user with a unique email and returns it.
func CreateUser(t *testing.T, store interface {
	CreateUser(context.Context, models.User) error
}) models.User {
	t.Helper()
	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        uuid.New().String()[:8] + "@example.com",
		PasswordHash: "not-a-real-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// FixedClock returns a clock func that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
