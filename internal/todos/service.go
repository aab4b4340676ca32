// Package todos is the whole-document todo API used by the HTTP and CLI
// surfaces. Interactive editing goes through the workspace package instead.
package todos

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/utils"
)

type Store interface {
	GetTodoByDate(ctx context.Context, userID, date string) (models.Todo, error)
	CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error)
	UpdateTodo(ctx context.Context, todo models.Todo) error
	DeleteTodo(ctx context.Context, userID, id string) error
	ListTodosInRange(ctx context.Context, userID, from, to string) ([]models.Todo, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

func invalidDate(date string) error {
	return apperrors.Validation("todo.invalid_date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
}

func (s *Service) Get(ctx context.Context, userID, date string) (models.Todo, error) {
	if !utils.ValidateDateFormat(date) {
		return models.Todo{}, invalidDate(date)
	}
	return s.store.GetTodoByDate(ctx, userID, date)
}

// List returns todos dated within [from, to]. Either bound may be empty.
func (s *Service) List(ctx context.Context, userID, from, to string) ([]models.Todo, error) {
	for _, d := range []string{from, to} {
		if d != "" && !utils.ValidateDateFormat(d) {
			return nil, invalidDate(d)
		}
	}
	if from != "" && to != "" && from > to {
		return nil, apperrors.Validation("todo.invalid_range", "from must not be after to")
	}
	return s.store.ListTodosInRange(ctx, userID, from, to)
}

// Put creates the todo for date or replaces the existing one with input's
// tasks and notes. The completion flag is always derived from the tasks. It
// reports whether a new todo was created.
func (s *Service) Put(ctx context.Context, userID, date string, input models.Todo) (models.Todo, bool, error) {
	if !utils.ValidateDateFormat(date) {
		return models.Todo{}, false, invalidDate(date)
	}
	if len(input.Tasks) == 0 {
		return models.Todo{}, false, apperrors.Validation("todo.tasks_required", "a todo needs at least one task")
	}
	if len(input.Notes) > 1 {
		return models.Todo{}, false, apperrors.Validation("todo.single_note", "a todo has at most one note")
	}

	todo := input.Clone()
	todo.UserID = userID
	todo.Date = date
	for i := range todo.Tasks {
		todo.Tasks[i].Title = strings.TrimSpace(todo.Tasks[i].Title)
		for j := range todo.Tasks[i].SubTasks {
			todo.Tasks[i].SubTasks[j].Title = strings.TrimSpace(todo.Tasks[i].SubTasks[j].Title)
		}
	}
	todo.Renumber()
	todo.HasCompletedAllTasks = utils.CheckAllTasksCompleted(todo.Tasks)
	todo.UpdatedAt = s.now().UTC()

	existing, err := s.store.GetTodoByDate(ctx, userID, date)
	switch {
	case err == nil:
		todo.ID = existing.ID
		todo.CreatedAt = existing.CreatedAt
		if err := s.store.UpdateTodo(ctx, todo); err != nil {
			return models.Todo{}, false, fmt.Errorf("replacing todo for %s: %w", date, err)
		}
		return todo, false, nil
	case apperrors.Is(err, apperrors.ErrNotFound):
		todo.ID = ""
		todo.CreatedAt = todo.UpdatedAt
		created, err := s.store.CreateTodo(ctx, todo)
		if err != nil {
			return models.Todo{}, false, fmt.Errorf("creating todo for %s: %w", date, err)
		}
		return created, true, nil
	default:
		return models.Todo{}, false, fmt.Errorf("loading todo for %s: %w", date, err)
	}
}

func (s *Service) Delete(ctx context.Context, userID, date string) error {
	todo, err := s.Get(ctx, userID, date)
	if err != nil {
		return err
	}
	return s.store.DeleteTodo(ctx, userID, todo.ID)
}
