package dto

type TodoItem struct {
	ID                   string     `json:"id"`
	Date                 string     `json:"date"`
	HasCompletedAllTasks bool       `json:"has_completed_all_tasks"`
	Tasks                []TaskItem `json:"tasks"`
	Notes                []NoteItem `json:"notes"`
	CreatedAt            string     `json:"created_at"`
	UpdatedAt            string     `json:"updated_at"`
}

type TaskItem struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Completed bool          `json:"completed"`
	Position  int           `json:"position"`
	SubTasks  []SubTaskItem `json:"subtasks"`
}

type SubTaskItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Position  int    `json:"position"`
}

type NoteItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// PutTodoRequest replaces a whole todo. Positions follow slice order and
// has_completed_all_tasks is derived, so neither is accepted.
type PutTodoRequest struct {
	Tasks []TaskInput `json:"tasks" binding:"required,dive"`
	Notes []NoteInput `json:"notes" binding:"omitempty,dive"`
}

type TaskInput struct {
	ID        string         `json:"id"`
	Title     string         `json:"title" binding:"max=500"`
	Completed bool           `json:"completed"`
	SubTasks  []SubTaskInput `json:"subtasks" binding:"omitempty,dive"`
}

type SubTaskInput struct {
	ID        string `json:"id"`
	Title     string `json:"title" binding:"max=500"`
	Completed bool   `json:"completed"`
}

type NoteInput struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}
