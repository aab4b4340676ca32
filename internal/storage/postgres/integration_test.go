package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
)

// TestStore_Integration runs against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://ogtodo_user@localhost:5432/ogtodo_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	require.NoError(t, store.Init())
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)
	user := models.User{
		ID:           uuid.New().String(),
		Name:         "Integration",
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.CreateUser(ctx, user))
	defer store.DeleteUser(ctx, user.ID)

	t.Run("DuplicateEmail", func(t *testing.T) {
		dup := user
		dup.ID = uuid.New().String()
		err := store.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("TodoReplace", func(t *testing.T) {
		todo, err := store.CreateTodo(ctx, models.Todo{
			UserID: user.ID,
			Date:   "2026-01-15",
			Tasks:  []models.Task{{Title: "one"}, {Title: "two"}},
		})
		require.NoError(t, err)

		todo.Tasks = []models.Task{{Title: "only", Completed: true}}
		todo.HasCompletedAllTasks = true
		require.NoError(t, store.UpdateTodo(ctx, todo))

		got, err := store.GetTodoByDate(ctx, user.ID, "2026-01-15")
		require.NoError(t, err)
		require.Len(t, got.Tasks, 1)
		assert.Equal(t, "only", got.Tasks[0].Title)
		assert.True(t, got.HasCompletedAllTasks)
	})

	t.Run("CommitmentPlaceholders", func(t *testing.T) {
		c := models.Commitment{
			ID: uuid.New().String(), UserID: user.ID, Title: "t", Description: "d",
			Priority: models.PriorityHigh, Category: "work", DueDate: now.Add(48 * time.Hour),
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, store.CreateCommitment(ctx, c))

		n, err := store.SetCommitmentsCompleted(ctx, user.ID, []string{c.ID}, true)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		count, err := store.CountCommitments(ctx, user.ID, models.CommitmentFilter{DueSoon: true, Now: now})
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
