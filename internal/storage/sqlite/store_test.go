package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/storage/sqlite"
	"github.com/julianstephens/ogtodo/internal/testutil"
)

func TestLoadRequiresInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	store := sqlite.NewStore(path)
	err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ogtodo init")
}

func TestInitThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ogtodo.db")

	store := sqlite.NewStore(path)
	require.NoError(t, store.Init())
	require.NoError(t, store.Close())

	_, err := os.Stat(path)
	require.NoError(t, err, "Init should create the database file")

	reopened := sqlite.NewStore(path)
	require.NoError(t, reopened.Load())
	defer reopened.Close()
	require.NoError(t, reopened.Ping(context.Background()))
	assert.Equal(t, path, reopened.GetConfigPath())
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)

	got, err := store.GetUserByEmail(ctx, strings.ToUpper(user.Email))
	require.NoError(t, err, "email lookup ignores case")
	assert.Equal(t, user.ID, got.ID)

	dup := user
	dup.ID = uuid.New().String()
	err = store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got.Name = "Renamed"
	got.UpdatedAt = time.Now()
	require.NoError(t, store.UpdateUser(ctx, got))
	reloaded, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)

	_, err = store.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTodoCreateAndReplaceChildren(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)

	created, err := store.CreateTodo(ctx, models.Todo{
		UserID: user.ID,
		Date:   "2026-03-10",
		Tasks: []models.Task{
			{Title: "write", SubTasks: []models.SubTask{{Title: "outline"}, {Title: "draft"}}},
			{Title: "review"},
		},
		Notes: []models.Note{{Content: "remember"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.Tasks[0].ID)

	got, err := store.GetTodoByDate(ctx, user.ID, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "write", got.Tasks[0].Title)
	assert.Equal(t, "review", got.Tasks[1].Title)
	require.Len(t, got.Tasks[0].SubTasks, 2)
	assert.Equal(t, "outline", got.Tasks[0].SubTasks[0].Title)
	require.Len(t, got.Notes, 1)

	got.Tasks = []models.Task{{ID: got.Tasks[1].ID, Title: "review", Completed: true}}
	got.Notes = []models.Note{}
	got.HasCompletedAllTasks = true
	got.UpdatedAt = time.Now()
	require.NoError(t, store.UpdateTodo(ctx, got))

	replaced, err := store.GetTodo(ctx, user.ID, got.ID)
	require.NoError(t, err)
	require.Len(t, replaced.Tasks, 1)
	assert.True(t, replaced.Tasks[0].Completed)
	assert.Empty(t, replaced.Tasks[0].SubTasks)
	assert.Empty(t, replaced.Notes)
	assert.True(t, replaced.HasCompletedAllTasks)

	var orphans int
	require.NoError(t, store.DB().Get(&orphans, "SELECT COUNT(*) FROM subtasks"))
	assert.Zero(t, orphans, "old subtasks should be removed")
}

func TestTodoDuplicateDateConflicts(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)

	_, err := store.CreateTodo(ctx, models.Todo{UserID: user.ID, Date: "2026-03-10"})
	require.NoError(t, err)
	_, err = store.CreateTodo(ctx, models.Todo{UserID: user.ID, Date: "2026-03-10"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestTodoUpdateFailureLeavesChildrenIntact(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)

	first, err := store.CreateTodo(ctx, models.Todo{UserID: user.ID, Date: "2026-03-10", Tasks: []models.Task{{Title: "a"}}})
	require.NoError(t, err)
	second, err := store.CreateTodo(ctx, models.Todo{UserID: user.ID, Date: "2026-03-11", Tasks: []models.Task{{Title: "b"}}})
	require.NoError(t, err)

	// Reusing a task ID owned by another todo violates the primary key mid-transaction.
	first.Tasks = []models.Task{{Title: "new"}, {ID: second.Tasks[0].ID, Title: "clash"}}
	require.Error(t, store.UpdateTodo(ctx, first))

	got, err := store.GetTodo(ctx, user.ID, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "a", got.Tasks[0].Title)
}

func TestTodoDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)

	todo, err := store.CreateTodo(ctx, models.Todo{
		UserID: user.ID,
		Date:   "2026-03-10",
		Tasks:  []models.Task{{Title: "a", SubTasks: []models.SubTask{{Title: "b"}}}},
		Notes:  []models.Note{{Content: "n"}},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteTodo(ctx, user.ID, todo.ID))
	assert.ErrorIs(t, store.DeleteTodo(ctx, user.ID, todo.ID), apperrors.ErrNotFound)

	for _, table := range []string{"tasks", "subtasks", "notes"} {
		var n int
		require.NoError(t, store.DB().Get(&n, "SELECT COUNT(*) FROM "+table))
		assert.Zero(t, n, "%s should be empty after delete", table)
	}
}

func TestListTodosInRange(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)
	other := testutil.CreateUser(t, store)

	for _, d := range []string{"2026-03-01", "2026-03-05", "2026-03-09"} {
		_, err := store.CreateTodo(ctx, models.Todo{UserID: user.ID, Date: d, Tasks: []models.Task{{Title: d}}})
		require.NoError(t, err)
	}
	_, err := store.CreateTodo(ctx, models.Todo{UserID: other.ID, Date: "2026-03-05"})
	require.NoError(t, err)

	all, err := store.ListTodos(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-01", all[0].Date)
	assert.Equal(t, "2026-03-01", all[0].Tasks[0].Title)

	ranged, err := store.ListTodosInRange(ctx, user.ID, "2026-03-02", "2026-03-09")
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "2026-03-05", ranged[0].Date)

	from, err := store.ListTodosInRange(ctx, user.ID, "2026-03-06", "")
	require.NoError(t, err)
	assert.Len(t, from, 1)
}

func TestStreaks(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)

	_, err := store.GetStreak(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, store.UpdateStreak(ctx, models.Streak{UserID: user.ID}), apperrors.ErrNotFound)

	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateStreak(ctx, models.Streak{UserID: user.ID, CurrentStreak: 1, LongestStreak: 1, LastUpdated: now}))

	require.NoError(t, store.UpdateStreak(ctx, models.Streak{UserID: user.ID, CurrentStreak: 2, LongestStreak: 2, LastUpdated: now.Add(24 * time.Hour)}))
	got, err := store.GetStreak(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.True(t, got.LastUpdated.Equal(now.Add(24*time.Hour)), "last updated = %v", got.LastUpdated)
}

func TestCommitmentsFiltersAndOrdering(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	add := func(title string, p models.Priority, category string, due time.Time, done bool, created time.Time) models.Commitment {
		c := models.Commitment{
			ID: uuid.New().String(), UserID: user.ID, Title: title, Description: "d",
			Priority: p, Category: category, DueDate: due, IsCompleted: done,
			CreatedAt: created, UpdatedAt: created,
		}
		require.NoError(t, store.CreateCommitment(ctx, c))
		return c
	}

	add("done-high", models.PriorityHigh, "work", now.Add(24*time.Hour), true, now)
	add("low-soon", models.PriorityLow, "home", now.Add(48*time.Hour), false, now)
	add("high-later", models.PriorityHigh, "work", now.Add(30*24*time.Hour), false, now)
	add("high-soon", models.PriorityHigh, "work", now.Add(72*time.Hour), false, now)
	add("medium-overdue", models.PriorityMedium, "health", now.Add(-24*time.Hour), false, now)

	list, err := store.ListCommitments(ctx, user.ID, models.CommitmentFilter{})
	require.NoError(t, err)
	var titles []string
	for _, c := range list {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"high-soon", "high-later", "medium-overdue", "low-soon", "done-high"}, titles)

	high := models.PriorityHigh
	byPriority, err := store.ListCommitments(ctx, user.ID, models.CommitmentFilter{Priority: &high})
	require.NoError(t, err)
	assert.Len(t, byPriority, 3)

	cat := "work"
	open := false
	openWork, err := store.CountCommitments(ctx, user.ID, models.CommitmentFilter{Category: &cat, Completed: &open})
	require.NoError(t, err)
	assert.Equal(t, 2, openWork)

	overdue, err := store.CountCommitments(ctx, user.ID, models.CommitmentFilter{Overdue: true, Now: now})
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)

	dueSoon, err := store.CountCommitments(ctx, user.ID, models.CommitmentFilter{DueSoon: true, Now: now})
	require.NoError(t, err)
	assert.Equal(t, 2, dueSoon)

	categories, err := store.ListCategories(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"health", "home", "work"}, categories)
}

func TestCommitmentBulkAndDelete(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)
	other := testutil.CreateUser(t, store)
	now := time.Now().UTC()

	var ids []string
	for i := 0; i < 3; i++ {
		c := models.Commitment{
			ID: uuid.New().String(), UserID: user.ID, Title: "t", Description: "d",
			Priority: models.PriorityLow, Category: "c", DueDate: now.Add(time.Hour),
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, store.CreateCommitment(ctx, c))
		ids = append(ids, c.ID)
	}

	n, err := store.SetCommitmentsCompleted(ctx, other.ID, ids, true)
	require.NoError(t, err)
	assert.Zero(t, n, "other users cannot touch these commitments")

	n, err = store.SetCommitmentsCompleted(ctx, user.ID, ids[:2], true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	done := true
	count, err := store.CountCommitments(ctx, user.ID, models.CommitmentFilter{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.DeleteCommitment(ctx, user.ID, ids[0]))
	_, err = store.GetCommitment(ctx, user.ID, ids[0])
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, store.DeleteCommitment(ctx, other.ID, ids[1]), apperrors.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)
	now := time.Now().UTC()

	_, err := store.CreateTodo(ctx, models.Todo{UserID: user.ID, Date: "2026-03-10", Tasks: []models.Task{{Title: "a"}}})
	require.NoError(t, err)
	require.NoError(t, store.CreateStreak(ctx, models.Streak{UserID: user.ID, LastUpdated: now}))
	require.NoError(t, store.CreateSession(ctx, models.Session{ID: "s1", UserID: user.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, store.CreateCommitment(ctx, models.Commitment{
		ID: "c1", UserID: user.ID, Title: "t", Description: "d", Priority: models.PriorityLow,
		Category: "c", DueDate: now, CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, store.DeleteUser(ctx, user.ID))

	for _, table := range []string{"todos", "tasks", "streaks", "sessions", "commitments"} {
		var n int
		require.NoError(t, store.DB().Get(&n, "SELECT COUNT(*) FROM "+table))
		assert.Zero(t, n, "%s should be empty after user delete", table)
	}
}
