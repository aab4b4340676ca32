package models

import "time"

// Todo is a user's single per-day container of tasks and notes.
type Todo struct {
	ID                   string    `json:"id" yaml:"id"`
	UserID               string    `json:"user_id" yaml:"user_id"`
	Date                 string    `json:"date" yaml:"date"` // YYYY-MM-DD format
	HasCompletedAllTasks bool      `json:"has_completed_all_tasks" yaml:"has_completed_all_tasks"`
	Tasks                []Task    `json:"tasks" yaml:"tasks"`
	Notes                []Note    `json:"notes" yaml:"notes"`
	CreatedAt            time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" yaml:"updated_at"`
}

type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Completed bool      `json:"completed" yaml:"completed"`
	Position  int       `json:"position" yaml:"position"`
	SubTasks  []SubTask `json:"subtasks" yaml:"subtasks"`

	// Expanded is UI state only and never persisted.
	Expanded bool `json:"-" yaml:"-"`
}

type SubTask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
	Position  int    `json:"position" yaml:"position"`
}

type Note struct {
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// IsPersisted reports whether the todo has been written to storage.
func (t *Todo) IsPersisted() bool {
	return t.ID != ""
}

// Clone returns a deep copy of the todo.
func (t Todo) Clone() Todo {
	out := t
	out.Tasks = make([]Task, len(t.Tasks))
	for i, task := range t.Tasks {
		out.Tasks[i] = task
		out.Tasks[i].SubTasks = append([]SubTask(nil), task.SubTasks...)
		if out.Tasks[i].SubTasks == nil {
			out.Tasks[i].SubTasks = []SubTask{}
		}
	}
	out.Notes = append([]Note(nil), t.Notes...)
	if out.Notes == nil {
		out.Notes = []Note{}
	}
	return out
}

// Renumber sets task and subtask positions to their slice index.
func (t *Todo) Renumber() {
	for i := range t.Tasks {
		t.Tasks[i].Position = i
		for j := range t.Tasks[i].SubTasks {
			t.Tasks[i].SubTasks[j].Position = j
		}
	}
}

// TaskStats summarizes completion of a list of tasks.
type TaskStats struct {
	TotalTasks        int `json:"total_tasks"`
	CompletedTasks    int `json:"completed_tasks"`
	TotalSubTasks     int `json:"total_subtasks"`
	CompletedSubTasks int `json:"completed_subtasks"`
}

// GridCell is one cell of a month calendar grid. Placeholder cells have Empty set
// and a zero Day.
type GridCell struct {
	Day       int  `json:"day"`
	Empty     bool `json:"empty"`
	Completed bool `json:"completed"`
	Today     bool `json:"today"`
	Future    bool `json:"future"`
}
