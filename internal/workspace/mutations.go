package workspace

import (
	"github.com/google/uuid"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/utils"
)

// ErrLastTask is returned when deleting the only remaining task.
var ErrLastTask = apperrors.Validation("workspace.last_task", "a todo must keep at least one task")

var errNotLoaded = apperrors.Validation("workspace.not_loaded", "workspace is still loading")

// TaskUpdate holds the task fields to change. Nil fields are left alone.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

type SubTaskUpdate struct {
	Title     *string
	Completed *bool
}

func taskNotFound() error {
	return apperrors.NotFound("workspace.task_not_found", "task not found")
}

func subTaskNotFound() error {
	return apperrors.NotFound("workspace.subtask_not_found", "subtask not found")
}

func noteNotFound() error {
	return apperrors.NotFound("workspace.note_not_found", "note not found")
}

// mutate applies fn to a copy of the todo and, if fn succeeds, installs the
// copy as an unsaved edit and restarts the autosave timer.
func (s *Session) mutate(fn func(todo *models.Todo) error) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return errNotLoaded
	}
	next := s.todo.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.Renumber()
	next.UpdatedAt = s.now().UTC()
	next.HasCompletedAllTasks = utils.CheckAllTasksCompleted(next.Tasks)
	// Keep the ID adopted by a save that finished while fn ran.
	next.ID = s.todo.ID
	s.todo = next
	s.rev++
	s.err = nil
	if !s.saving {
		s.state = StateDirty
	}
	s.scheduleLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// AddTask inserts an empty task after afterID, or at the end when afterID is
// empty, focuses it and returns its id.
func (s *Session) AddTask(afterID string) (string, error) {
	task := newTask()
	err := s.mutate(func(todo *models.Todo) error {
		at := len(todo.Tasks)
		if afterID != "" {
			i := taskIndex(todo.Tasks, afterID)
			if i < 0 {
				return taskNotFound()
			}
			at = i + 1
		}
		todo.Tasks = append(todo.Tasks, models.Task{})
		copy(todo.Tasks[at+1:], todo.Tasks[at:])
		todo.Tasks[at] = task
		return nil
	})
	if err != nil {
		return "", err
	}
	s.SetFocus(task.ID)
	return task.ID, nil
}

func (s *Session) UpdateTask(taskID string, update TaskUpdate) error {
	return s.mutate(func(todo *models.Todo) error {
		i := taskIndex(todo.Tasks, taskID)
		if i < 0 {
			return taskNotFound()
		}
		if update.Title != nil {
			todo.Tasks[i].Title = *update.Title
		}
		if update.Completed != nil {
			todo.Tasks[i].Completed = *update.Completed
		}
		return nil
	})
}

// ToggleTask flips the task's completed flag.
func (s *Session) ToggleTask(taskID string) error {
	return s.mutate(func(todo *models.Todo) error {
		i := taskIndex(todo.Tasks, taskID)
		if i < 0 {
			return taskNotFound()
		}
		todo.Tasks[i].Completed = !todo.Tasks[i].Completed
		return nil
	})
}

// DeleteTask removes the task and its subtasks. The last task cannot be deleted.
// Focus moves to the previous task when the deleted one had it.
func (s *Session) DeleteTask(taskID string) error {
	var neighbor string
	err := s.mutate(func(todo *models.Todo) error {
		i := taskIndex(todo.Tasks, taskID)
		if i < 0 {
			return taskNotFound()
		}
		if len(todo.Tasks) <= 1 {
			return ErrLastTask
		}
		todo.Tasks = append(todo.Tasks[:i], todo.Tasks[i+1:]...)
		if i > 0 {
			neighbor = todo.Tasks[i-1].ID
		} else {
			neighbor = todo.Tasks[0].ID
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.Focus() == taskID {
		s.SetFocus(neighbor)
	}
	return nil
}

// ToggleExpanded shows or hides a task's subtasks. It is display state and
// does not mark the session dirty.
func (s *Session) ToggleExpanded(taskID string) error {
	s.mu.Lock()
	i := taskIndex(s.todo.Tasks, taskID)
	if i < 0 {
		s.mu.Unlock()
		return taskNotFound()
	}
	s.todo.Tasks[i].Expanded = !s.todo.Tasks[i].Expanded
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// AddSubTask appends an empty subtask to the task, expands it and returns the subtask id.
func (s *Session) AddSubTask(taskID string) (string, error) {
	sub := models.SubTask{ID: uuid.New().String()}
	err := s.mutate(func(todo *models.Todo) error {
		i := taskIndex(todo.Tasks, taskID)
		if i < 0 {
			return taskNotFound()
		}
		todo.Tasks[i].SubTasks = append(todo.Tasks[i].SubTasks, sub)
		todo.Tasks[i].Expanded = true
		return nil
	})
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (s *Session) UpdateSubTask(subTaskID string, update SubTaskUpdate) error {
	return s.mutate(func(todo *models.Todo) error {
		sub := findSubTask(todo, subTaskID)
		if sub == nil {
			return subTaskNotFound()
		}
		if update.Title != nil {
			sub.Title = *update.Title
		}
		if update.Completed != nil {
			sub.Completed = *update.Completed
		}
		return nil
	})
}

func (s *Session) ToggleSubTask(subTaskID string) error {
	return s.mutate(func(todo *models.Todo) error {
		sub := findSubTask(todo, subTaskID)
		if sub == nil {
			return subTaskNotFound()
		}
		sub.Completed = !sub.Completed
		return nil
	})
}

func (s *Session) DeleteSubTask(subTaskID string) error {
	return s.mutate(func(todo *models.Todo) error {
		for i := range todo.Tasks {
			subs := todo.Tasks[i].SubTasks
			for j := range subs {
				if subs[j].ID == subTaskID {
					todo.Tasks[i].SubTasks = append(subs[:j], subs[j+1:]...)
					return nil
				}
			}
		}
		return subTaskNotFound()
	})
}

// AddNote adds the todo's note and returns its id. If a note already exists
// nothing changes and the existing id is returned.
func (s *Session) AddNote() (string, error) {
	s.mu.Lock()
	if len(s.todo.Notes) > 0 {
		id := s.todo.Notes[0].ID
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	note := models.Note{ID: uuid.New().String()}
	err := s.mutate(func(todo *models.Todo) error {
		if len(todo.Notes) > 0 {
			note = todo.Notes[0]
			return nil
		}
		todo.Notes = append(todo.Notes, note)
		return nil
	})
	if err != nil {
		return "", err
	}
	return note.ID, nil
}

func (s *Session) UpdateNote(noteID, content string) error {
	return s.mutate(func(todo *models.Todo) error {
		for i := range todo.Notes {
			if todo.Notes[i].ID == noteID {
				todo.Notes[i].Content = content
				return nil
			}
		}
		return noteNotFound()
	})
}

func (s *Session) DeleteNote(noteID string) error {
	return s.mutate(func(todo *models.Todo) error {
		for i := range todo.Notes {
			if todo.Notes[i].ID == noteID {
				todo.Notes = append(todo.Notes[:i], todo.Notes[i+1:]...)
				return nil
			}
		}
		return noteNotFound()
	})
}

func findSubTask(todo *models.Todo, id string) *models.SubTask {
	for i := range todo.Tasks {
		for j := range todo.Tasks[i].SubTasks {
			if todo.Tasks[i].SubTasks[j].ID == id {
				return &todo.Tasks[i].SubTasks[j]
			}
		}
	}
	return nil
}
