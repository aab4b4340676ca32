// Package dashboard builds the read models behind the commitments, profile and
// streak views.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/ogtodo/internal/constants"
	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/utils"
)

// CommitmentStats summarizes commitments as of now. The completion rate is a
// rounded percentage.
func CommitmentStats(commitments []models.Commitment, now time.Time) models.CommitmentStats {
	var stats models.CommitmentStats
	for i := range commitments {
		c := &commitments[i]
		stats.Total++
		if c.IsCompleted {
			stats.Completed++
		}
		if c.IsOverdue(now) {
			stats.Overdue++
		}
		if c.IsDueSoon(now, constants.DueSoonWindow) {
			stats.DueSoon++
		}
	}
	stats.Active = stats.Total - stats.Completed
	stats.CompletionRate = int(math.Round(utils.CompletionRate(stats.Completed, stats.Total)))
	return stats
}

// ProfileStats combines commitment, todo and streak totals. The todo
// completion rate is not rounded.
func ProfileStats(commitments []models.Commitment, todos []models.Todo, streak models.StreakData) models.ProfileStats {
	stats := models.ProfileStats{
		TotalCommitments: len(commitments),
		TotalTodos:       len(todos),
		CurrentStreak:    streak.CurrentStreak,
		LongestStreak:    streak.LongestStreak,
	}
	for _, c := range commitments {
		if c.IsCompleted {
			stats.CompletedCommitments++
		}
	}
	completedTodos := 0
	for _, t := range todos {
		if t.HasCompletedAllTasks {
			completedTodos++
		}
	}
	stats.TodoCompletionRate = utils.CompletionRate(completedTodos, len(todos))
	return stats
}

// StreakMonth builds the calendar for year and month from todos, bucketing
// days in loc.
func StreakMonth(todos []models.Todo, year int, month time.Month, streak models.StreakData, now time.Time, loc *time.Location) models.StreakMonth {
	completed := utils.CompletedDaysForMonth(todos, year, month, loc)
	return models.StreakMonth{
		Year:          year,
		Month:         int(month),
		CompletedDays: utils.SortedDays(completed),
		Grid:          utils.GetMonthGridData(year, month, completed, now.In(loc)),
		Streak:        streak,
	}
}

type CommitmentLister interface {
	ListCommitments(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error)
}

type TodoLister interface {
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
}

// StreakReader is satisfied by *streak.Engine.
type StreakReader interface {
	GetCurrentStreak(ctx context.Context, userID string) (models.StreakData, error)
	Location() *time.Location
}

type Service struct {
	commitments CommitmentLister
	todos       TodoLister
	streaks     StreakReader
	now         func() time.Time
}

func NewService(commitments CommitmentLister, todos TodoLister, streaks StreakReader) *Service {
	return &Service{commitments: commitments, todos: todos, streaks: streaks, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

func (s *Service) CommitmentStats(ctx context.Context, userID string) (models.CommitmentStats, error) {
	list, err := s.commitments.ListCommitments(ctx, userID, models.CommitmentFilter{})
	if err != nil {
		return models.CommitmentStats{}, fmt.Errorf("listing commitments: %w", err)
	}
	return CommitmentStats(list, s.now()), nil
}

func (s *Service) ProfileStats(ctx context.Context, userID string) (models.ProfileStats, error) {
	list, err := s.commitments.ListCommitments(ctx, userID, models.CommitmentFilter{})
	if err != nil {
		return models.ProfileStats{}, fmt.Errorf("listing commitments: %w", err)
	}
	todos, err := s.todos.ListTodos(ctx, userID)
	if err != nil {
		return models.ProfileStats{}, fmt.Errorf("listing todos: %w", err)
	}
	streak, err := s.streaks.GetCurrentStreak(ctx, userID)
	if err != nil {
		return models.ProfileStats{}, fmt.Errorf("reading streak: %w", err)
	}
	return ProfileStats(list, todos, streak), nil
}

// StreakMonth returns the month view. A zero year or month means the current one.
func (s *Service) StreakMonth(ctx context.Context, userID string, year, month int) (models.StreakMonth, error) {
	loc := s.streaks.Location()
	now := s.now().In(loc)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return models.StreakMonth{}, apperrors.Validation("streak.invalid_month", fmt.Sprintf("invalid month %d", month))
	}

	streak, err := s.streaks.GetCurrentStreak(ctx, userID)
	if err != nil {
		return models.StreakMonth{}, fmt.Errorf("reading streak: %w", err)
	}
	todos, err := s.todos.ListTodos(ctx, userID)
	if err != nil {
		return models.StreakMonth{}, fmt.Errorf("listing todos: %w", err)
	}
	return StreakMonth(todos, year, time.Month(month), streak, now, loc), nil
}
