package mapper

import (
	"time"

	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/server/dto"
)

func ToUserItem(user models.User) dto.UserItem {
	return dto.UserItem{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Image:     user.Image,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func ToTodoItems(todos []models.Todo) []dto.TodoItem {
	items := make([]dto.TodoItem, 0, len(todos))
	for _, todo := range todos {
		items = append(items, ToTodoItem(todo))
	}
	return items
}

func ToTodoItem(todo models.Todo) dto.TodoItem {
	item := dto.TodoItem{
		ID:                   todo.ID,
		Date:                 todo.Date,
		HasCompletedAllTasks: todo.HasCompletedAllTasks,
		Tasks:                make([]dto.TaskItem, 0, len(todo.Tasks)),
		Notes:                make([]dto.NoteItem, 0, len(todo.Notes)),
		CreatedAt:            todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            todo.UpdatedAt.Format(time.RFC3339),
	}
	for _, task := range todo.Tasks {
		t := dto.TaskItem{
			ID:        task.ID,
			Title:     task.Title,
			Completed: task.Completed,
			Position:  task.Position,
			SubTasks:  make([]dto.SubTaskItem, 0, len(task.SubTasks)),
		}
		for _, sub := range task.SubTasks {
			t.SubTasks = append(t.SubTasks, dto.SubTaskItem{
				ID:        sub.ID,
				Title:     sub.Title,
				Completed: sub.Completed,
				Position:  sub.Position,
			})
		}
		item.Tasks = append(item.Tasks, t)
	}
	for _, note := range todo.Notes {
		item.Notes = append(item.Notes, dto.NoteItem{ID: note.ID, Content: note.Content})
	}
	return item
}

// FromPutTodoRequest builds the todo body for a replace. Ownership, date and
// timestamps are set by the service.
func FromPutTodoRequest(req dto.PutTodoRequest) models.Todo {
	todo := models.Todo{
		Tasks: make([]models.Task, 0, len(req.Tasks)),
		Notes: make([]models.Note, 0, len(req.Notes)),
	}
	for _, in := range req.Tasks {
		task := models.Task{
			ID:        in.ID,
			Title:     in.Title,
			Completed: in.Completed,
			SubTasks:  make([]models.SubTask, 0, len(in.SubTasks)),
		}
		for _, sub := range in.SubTasks {
			task.SubTasks = append(task.SubTasks, models.SubTask{
				ID:        sub.ID,
				Title:     sub.Title,
				Completed: sub.Completed,
			})
		}
		todo.Tasks = append(todo.Tasks, task)
	}
	for _, in := range req.Notes {
		todo.Notes = append(todo.Notes, models.Note{ID: in.ID, Content: in.Content})
	}
	return todo
}

func ToCommitmentItems(list []models.Commitment, now time.Time) []dto.CommitmentItem {
	items := make([]dto.CommitmentItem, 0, len(list))
	for _, c := range list {
		items = append(items, ToCommitmentItem(c, now))
	}
	return items
}

func ToCommitmentItem(c models.Commitment, now time.Time) dto.CommitmentItem {
	return dto.CommitmentItem{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Priority:      string(c.Priority),
		PriorityLabel: c.Priority.Label(),
		Category:      c.Category,
		DueDate:       c.DueDate.Format(time.RFC3339),
		IsCompleted:   c.IsCompleted,
		IsOverdue:     c.IsOverdue(now),
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
	}
}

// ParseDueDate accepts RFC3339 timestamps or plain dates (midnight UTC).
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
