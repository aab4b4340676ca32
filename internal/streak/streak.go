// Package streak maintains the per-user daily completion streak.
package streak

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/utils"
)

// TodoLister lists all of a user's todos.
type TodoLister interface {
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
}

// Store persists streak records.
type Store interface {
	GetStreak(ctx context.Context, userID string) (models.Streak, error)
	CreateStreak(ctx context.Context, streak models.Streak) error
	UpdateStreak(ctx context.Context, streak models.Streak) error
}

type Engine struct {
	todos   TodoLister
	streaks Store
	now     func() time.Time
	loc     *time.Location
}

type Option func(*Engine)

// WithClock overrides the engine's source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(todos TodoLister, streaks Store, opts ...Option) *Engine {
	e := &Engine{
		todos:   todos,
		streaks: streaks,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the timezone the engine buckets days in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// CheckStreak scores today at most once per calendar day and returns the
// current streak. Later calls on the same day return the stored value.
func (e *Engine) CheckStreak(ctx context.Context, userID string) (int, error) {
	now := e.now().In(e.loc)
	startOfToday := utils.StartOfDay(now, e.loc)

	record, err := e.streaks.GetStreak(ctx, userID)
	exists := true
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return 0, fmt.Errorf("loading streak: %w", err)
		}
		exists = false
	}

	if exists && !record.LastUpdated.Before(startOfToday) {
		return record.CurrentStreak, nil
	}

	todos, err := e.todos.ListTodos(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing todos: %w", err)
	}

	todayKey := utils.DateKey(startOfToday, e.loc)
	yesterdayKey := utils.DateKey(startOfToday.AddDate(0, 0, -1), e.loc)

	today := e.findUpdatedOn(todos, todayKey)
	yesterday := e.findUpdatedOn(todos, yesterdayKey)

	newStreak := 0
	if today != nil && today.HasCompletedAllTasks {
		if yesterday != nil && yesterday.HasCompletedAllTasks {
			newStreak = record.CurrentStreak + 1
		} else {
			newStreak = 1
		}
	}

	longest := newStreak
	if exists && record.LongestStreak > longest {
		longest = record.LongestStreak
	}

	if exists {
		record.CurrentStreak = newStreak
		record.LongestStreak = longest
		record.LastUpdated = now
		if err := e.streaks.UpdateStreak(ctx, record); err != nil {
			return 0, fmt.Errorf("updating streak: %w", err)
		}
	} else {
		err := e.streaks.CreateStreak(ctx, models.Streak{
			UserID:        userID,
			CurrentStreak: newStreak,
			LongestStreak: longest,
			LastUpdated:   now,
			CreatedAt:     now,
		})
		if err != nil {
			return 0, fmt.Errorf("creating streak: %w", err)
		}
	}

	logger.Debug("Streak scored", "user", userID, "current", newStreak, "longest", longest)
	return newStreak, nil
}

// findUpdatedOn returns the todo last updated on the given day. When several
// match, the todo keyed to that day wins, otherwise the first one.
func (e *Engine) findUpdatedOn(todos []models.Todo, key string) *models.Todo {
	var found *models.Todo
	for i := range todos {
		if utils.DateKey(todos[i].UpdatedAt, e.loc) != key {
			continue
		}
		if todos[i].Date == key {
			return &todos[i]
		}
		if found == nil {
			found = &todos[i]
		}
	}
	return found
}

// GetCurrentStreak scores today if needed and returns the stored streak pair.
func (e *Engine) GetCurrentStreak(ctx context.Context, userID string) (models.StreakData, error) {
	if _, err := e.CheckStreak(ctx, userID); err != nil {
		return models.StreakData{}, err
	}

	record, err := e.streaks.GetStreak(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return models.StreakData{}, nil
		}
		return models.StreakData{}, fmt.Errorf("loading streak: %w", err)
	}
	return models.StreakData{
		CurrentStreak: record.CurrentStreak,
		LongestStreak: record.LongestStreak,
	}, nil
}
