package todos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/testutil"
	"github.com/julianstephens/ogtodo/internal/todos"
)

func newService(t *testing.T) (*todos.Service, string) {
	t.Helper()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)
	clock := testutil.FixedClock(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	return todos.NewService(store).WithClock(clock), user.ID
}

func TestPutCreatesThenReplaces(t *testing.T) {
	ctx := context.Background()
	svc, userID := newService(t)

	created, isNew, err := svc.Put(ctx, userID, "2026-03-09", models.Todo{
		Tasks: []models.Task{
			{Title: "  write  ", Completed: true},
			{Title: "review", SubTasks: []models.SubTask{{Title: "pr 12"}}},
		},
		Notes: []models.Note{{Content: "busy day"}},
	})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.HasCompletedAllTasks)
	assert.Equal(t, "write", created.Tasks[0].Title)

	replaced, isNew, err := svc.Put(ctx, userID, "2026-03-09", models.Todo{
		HasCompletedAllTasks: false,
		Tasks:                []models.Task{{Title: "only", Completed: true}},
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, replaced.ID)
	assert.True(t, replaced.HasCompletedAllTasks, "completion is derived from the tasks")

	got, err := svc.Get(ctx, userID, "2026-03-09")
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "only", got.Tasks[0].Title)
	assert.Empty(t, got.Notes)
	assert.True(t, got.HasCompletedAllTasks)
}

func TestPutValidation(t *testing.T) {
	ctx := context.Background()
	svc, userID := newService(t)

	tests := []struct {
		name string
		date string
		todo models.Todo
	}{
		{name: "bad date", date: "09/03/2026", todo: models.Todo{Tasks: []models.Task{{Title: "a"}}}},
		{name: "no tasks", date: "2026-03-09", todo: models.Todo{}},
		{name: "two notes", date: "2026-03-09", todo: models.Todo{
			Tasks: []models.Task{{Title: "a"}},
			Notes: []models.Note{{Content: "x"}, {Content: "y"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Put(ctx, userID, tt.date, tt.todo)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, userID := newService(t)

	for _, date := range []string{"2026-03-01", "2026-03-05", "2026-03-10"} {
		_, _, err := svc.Put(ctx, userID, date, models.Todo{Tasks: []models.Task{{Title: date}}})
		require.NoError(t, err)
	}

	inRange, err := svc.List(ctx, userID, "2026-03-02", "2026-03-10")
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	all, err := svc.List(ctx, userID, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.List(ctx, userID, "2026-03-10", "2026-03-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, svc.Delete(ctx, userID, "2026-03-05"))
	_, err = svc.Get(ctx, userID, "2026-03-05")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, userID, "2026-03-05"), apperrors.ErrNotFound)
}
