package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
)

type todoRow struct {
	ID                   string    `db:"id"`
	UserID               string    `db:"user_id"`
	Date                 string    `db:"date"`
	HasCompletedAllTasks bool      `db:"has_completed_all_tasks"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type taskRow struct {
	ID        string `db:"id"`
	TodoID    string `db:"todo_id"`
	Title     string `db:"title"`
	Completed bool   `db:"completed"`
	Position  int    `db:"position"`
}

type subTaskRow struct {
	ID        string `db:"id"`
	TaskID    string `db:"task_id"`
	Title     string `db:"title"`
	Completed bool   `db:"completed"`
	Position  int    `db:"position"`
}

type noteRow struct {
	ID      string `db:"id"`
	TodoID  string `db:"todo_id"`
	Content string `db:"content"`
}

const todoColumns = "id, user_id, date, has_completed_all_tasks, created_at, updated_at"

func (s *Store) GetTodoByDate(ctx context.Context, userID, date string) (models.Todo, error) {
	return s.getTodo(ctx, "user_id = ? AND date = ?", userID, date)
}

func (s *Store) GetTodo(ctx context.Context, userID, id string) (models.Todo, error) {
	return s.getTodo(ctx, "user_id = ? AND id = ?", userID, id)
}

func (s *Store) getTodo(ctx context.Context, where string, args ...any) (models.Todo, error) {
	var rows []todoRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind("SELECT "+todoColumns+" FROM todos WHERE "+where), args...)
	if err != nil {
		return models.Todo{}, fmt.Errorf("getting todo: %w", err)
	}
	if len(rows) == 0 {
		return models.Todo{}, notFound("todo.not_found", "todo not found")
	}
	todos, err := s.hydrate(ctx, rows)
	if err != nil {
		return models.Todo{}, err
	}
	return todos[0], nil
}

func (s *Store) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	return s.ListTodosInRange(ctx, userID, "", "")
}

func (s *Store) ListTodosInRange(ctx context.Context, userID, from, to string) ([]models.Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos WHERE user_id = ?"
	args := []any{userID}
	if from != "" {
		query += " AND date >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY date ASC"

	var rows []todoRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return s.hydrate(ctx, rows)
}

// hydrate loads the children of the given todo rows with one query per child table.
func (s *Store) hydrate(ctx context.Context, rows []todoRow) ([]models.Todo, error) {
	todos := make([]models.Todo, 0, len(rows))
	if len(rows) == 0 {
		return todos, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	var tasks []taskRow
	if err := s.selectIn(ctx, &tasks,
		"SELECT id, todo_id, title, completed, position FROM tasks WHERE todo_id IN (?) ORDER BY position ASC", ids); err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	var subtasks []subTaskRow
	if len(tasks) > 0 {
		taskIDs := make([]string, len(tasks))
		for i, t := range tasks {
			taskIDs[i] = t.ID
		}
		if err := s.selectIn(ctx, &subtasks,
			"SELECT id, task_id, title, completed, position FROM subtasks WHERE task_id IN (?) ORDER BY position ASC", taskIDs); err != nil {
			return nil, fmt.Errorf("loading subtasks: %w", err)
		}
	}

	var notes []noteRow
	if err := s.selectIn(ctx, &notes,
		"SELECT id, todo_id, content FROM notes WHERE todo_id IN (?) ORDER BY id ASC", ids); err != nil {
		return nil, fmt.Errorf("loading notes: %w", err)
	}

	subsByTask := make(map[string][]models.SubTask)
	for _, st := range subtasks {
		subsByTask[st.TaskID] = append(subsByTask[st.TaskID], models.SubTask{
			ID:        st.ID,
			Title:     st.Title,
			Completed: st.Completed,
			Position:  st.Position,
		})
	}
	tasksByTodo := make(map[string][]models.Task)
	for _, t := range tasks {
		subs := subsByTask[t.ID]
		if subs == nil {
			subs = []models.SubTask{}
		}
		tasksByTodo[t.TodoID] = append(tasksByTodo[t.TodoID], models.Task{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			Position:  t.Position,
			SubTasks:  subs,
		})
	}
	notesByTodo := make(map[string][]models.Note)
	for _, n := range notes {
		notesByTodo[n.TodoID] = append(notesByTodo[n.TodoID], models.Note{ID: n.ID, Content: n.Content})
	}

	for _, r := range rows {
		todo := models.Todo{
			ID:                   r.ID,
			UserID:               r.UserID,
			Date:                 r.Date,
			HasCompletedAllTasks: r.HasCompletedAllTasks,
			CreatedAt:            r.CreatedAt,
			UpdatedAt:            r.UpdatedAt,
			Tasks:                tasksByTodo[r.ID],
			Notes:                notesByTodo[r.ID],
		}
		if todo.Tasks == nil {
			todo.Tasks = []models.Task{}
		}
		if todo.Notes == nil {
			todo.Notes = []models.Note{}
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

func (s *Store) selectIn(ctx context.Context, dest any, query string, ids []string) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return s.db.SelectContext(ctx, dest, s.db.Rebind(q), args...)
}

func (s *Store) CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error) {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	if todo.UpdatedAt.IsZero() {
		todo.UpdatedAt = now
	}
	assignChildIDs(&todo)
	todo.Renumber()

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
			todo.ID, todo.UserID, todo.Date, todo.HasCompletedAllTasks, utc(todo.CreatedAt), utc(todo.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.Conflict("todo.exists", "a todo already exists for this date")
			}
			return fmt.Errorf("creating todo: %w", err)
		}
		return insertChildren(ctx, tx, todo)
	})
	if err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

func (s *Store) UpdateTodo(ctx context.Context, todo models.Todo) error {
	if todo.UpdatedAt.IsZero() {
		todo.UpdatedAt = time.Now().UTC()
	}
	assignChildIDs(&todo)
	todo.Renumber()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE todos SET has_completed_all_tasks = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`),
			todo.HasCompletedAllTasks, utc(todo.UpdatedAt), todo.ID, todo.UserID,
		)
		if err != nil {
			return fmt.Errorf("updating todo %s: %w", todo.ID, err)
		}
		if err := requireRows(result, "todo.not_found", "todo not found"); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"DELETE FROM subtasks WHERE task_id IN (SELECT id FROM tasks WHERE todo_id = ?)"), todo.ID); err != nil {
			return fmt.Errorf("clearing subtasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM tasks WHERE todo_id = ?"), todo.ID); err != nil {
			return fmt.Errorf("clearing tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM notes WHERE todo_id = ?"), todo.ID); err != nil {
			return fmt.Errorf("clearing notes: %w", err)
		}
		return insertChildren(ctx, tx, todo)
	})
}

func (s *Store) DeleteTodo(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM todos WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	return requireRows(result, "todo.not_found", "todo not found")
}

func assignChildIDs(todo *models.Todo) {
	for i := range todo.Tasks {
		if todo.Tasks[i].ID == "" {
			todo.Tasks[i].ID = uuid.New().String()
		}
		for j := range todo.Tasks[i].SubTasks {
			if todo.Tasks[i].SubTasks[j].ID == "" {
				todo.Tasks[i].SubTasks[j].ID = uuid.New().String()
			}
		}
	}
	for i := range todo.Notes {
		if todo.Notes[i].ID == "" {
			todo.Notes[i].ID = uuid.New().String()
		}
	}
}

func insertChildren(ctx context.Context, tx *sqlx.Tx, todo models.Todo) error {
	taskQuery := tx.Rebind("INSERT INTO tasks (id, todo_id, title, completed, position) VALUES (?, ?, ?, ?, ?)")
	subQuery := tx.Rebind("INSERT INTO subtasks (id, task_id, title, completed, position) VALUES (?, ?, ?, ?, ?)")
	noteQuery := tx.Rebind("INSERT INTO notes (id, todo_id, content) VALUES (?, ?, ?)")

	for i, task := range todo.Tasks {
		if _, err := tx.ExecContext(ctx, taskQuery, task.ID, todo.ID, task.Title, task.Completed, i); err != nil {
			return fmt.Errorf("inserting task: %w", err)
		}
		for j, sub := range task.SubTasks {
			if _, err := tx.ExecContext(ctx, subQuery, sub.ID, task.ID, sub.Title, sub.Completed, j); err != nil {
				return fmt.Errorf("inserting subtask: %w", err)
			}
		}
	}
	for _, note := range todo.Notes {
		if _, err := tx.ExecContext(ctx, noteQuery, note.ID, todo.ID, note.Content); err != nil {
			return fmt.Errorf("inserting note: %w", err)
		}
	}
	return nil
}
